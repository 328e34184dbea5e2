package model

// Severity ranks how urgently an alert needs attention.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Alert codes.
const (
	AlertHighNSFCount              = "HIGH_NSF_COUNT"
	AlertLowAverageBalance         = "LOW_AVERAGE_BALANCE"
	AlertNegativeBalanceDays       = "NEGATIVE_BALANCE_DAYS"
	AlertRevenueDiscrepancy        = "REVENUE_DISCREPANCY"
	AlertTimeInBusinessDiscrepancy = "TIME_IN_BUSINESS_DISCREPANCY"
)

// Alert is one triggered rule. Data carries every threshold and actual value
// the rule compared.
type Alert struct {
	Code     string         `json:"code"`
	Severity Severity       `json:"severity"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data"`
}

// CountBySeverity tallies alerts per severity.
func CountBySeverity(alerts []Alert) map[Severity]int {
	out := make(map[Severity]int, 4)
	for _, a := range alerts {
		out[a.Severity]++
	}
	return out
}
