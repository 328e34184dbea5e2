package calculator

import (
	"regexp"

	"StatementSentinel/internal/model"
)

var nsfPattern = regexp.MustCompile(`(?i)\bnsf\b|non[-\s]?sufficient|insufficient\s+funds?|returned\s+(?:item|check|payment|ach)`)

// CountNSF counts transactions whose description names an NSF or returned-item
// event. The amount's sign is not considered.
func CountNSF(txns []model.Transaction) int {
	n := 0
	for _, txn := range txns {
		if nsfPattern.MatchString(txn.Description) {
			n++
		}
	}
	return n
}
