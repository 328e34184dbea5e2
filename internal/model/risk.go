package model

// RiskLevel is the band a risk score falls into.
type RiskLevel string

const (
	RiskVeryLow RiskLevel = "VERY_LOW"
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
)

// Rank orders risk levels from VERY_LOW (0) to HIGH (3).
func (l RiskLevel) Rank() int {
	switch l {
	case RiskVeryLow:
		return 0
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 3
	}
}

// RiskFactor is one contribution to the composite risk score.
type RiskFactor struct {
	Name       string  `json:"name"`
	Points     float64 `json:"points"`
	Commentary string  `json:"commentary"`
}

// RiskAnalysisResult holds the metrics derived from a statement's transactions.
type RiskAnalysisResult struct {
	TotalDeposits       float64      `json:"totalDeposits"`
	TotalWithdrawals    float64      `json:"totalWithdrawals"`
	NetCashFlow         float64      `json:"netCashFlow"`
	NSFCount            int          `json:"nsfCount"`
	AverageDailyBalance float64      `json:"averageDailyBalance"`
	PeriodDays          int          `json:"periodDays"`
	MinimumBalance      float64      `json:"minimumBalance"`
	MaximumBalance      float64      `json:"maximumBalance"`
	EndingBalance       float64      `json:"endingBalance"`
	NegativeBalanceDays int          `json:"negativeBalanceDays"`
	TransactionCount    int          `json:"transactionCount"`
	RiskScore           float64      `json:"riskScore"`
	RiskLevel           RiskLevel    `json:"riskLevel"`
	RiskFactors         []RiskFactor `json:"riskFactors"`
}
