package calculator

import (
	"fmt"
	"math"

	"StatementSentinel/internal/model"
)

// Totals holds summed inflows and outflows. Both are non-negative.
type Totals struct {
	Deposits    float64
	Withdrawals float64
}

// Net returns deposits minus withdrawals, which equals the signed sum of amounts.
func (t Totals) Net() float64 { return t.Deposits - t.Withdrawals }

// CalculateTotals sums positive amounts into Deposits and the absolute value
// of negative amounts into Withdrawals.
func CalculateTotals(txns []model.Transaction) (Totals, error) {
	if err := checkAmounts(txns); err != nil {
		return Totals{}, err
	}
	var t Totals
	for _, txn := range txns {
		if txn.Amount > 0 {
			t.Deposits += txn.Amount
		} else {
			t.Withdrawals -= txn.Amount
		}
	}
	return t, nil
}

func checkAmounts(txns []model.Transaction) error {
	for i, txn := range txns {
		if !finite(txn.Amount) {
			return fmt.Errorf("transaction %d amount %v: %w", i, txn.Amount, model.ErrTypeMismatch)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
