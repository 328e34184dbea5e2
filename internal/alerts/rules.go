package alerts

import (
	"fmt"
	"math"

	"StatementSentinel/internal/model"
)

// Thresholds used by the default catalog.
const (
	NSFCountThreshold           = 3
	LowAverageBalanceThreshold  = 500.0
	RevenueDiscrepancyThreshold = 0.20
	TimeInBusinessMonths        = 3.0

	daysPerYear  = 365.0
	daysPerMonth = 365.25 / 12
)

func highNSFCount(r *model.RiskAnalysisResult) (model.Alert, bool) {
	if r.NSFCount < NSFCountThreshold {
		return model.Alert{}, false
	}
	return model.Alert{
		Code:     model.AlertHighNSFCount,
		Severity: model.SeverityHigh,
		Title:    "High NSF count",
		Message:  fmt.Sprintf("%d NSF or returned-item events (threshold %d)", r.NSFCount, NSFCountThreshold),
		Data: map[string]any{
			"nsfCount":  r.NSFCount,
			"threshold": NSFCountThreshold,
		},
	}, true
}

func lowAverageBalance(r *model.RiskAnalysisResult) (model.Alert, bool) {
	if r.AverageDailyBalance >= LowAverageBalanceThreshold {
		return model.Alert{}, false
	}
	return model.Alert{
		Code:     model.AlertLowAverageBalance,
		Severity: model.SeverityMedium,
		Title:    "Low average balance",
		Message:  fmt.Sprintf("average daily balance %.2f is below %.2f", r.AverageDailyBalance, LowAverageBalanceThreshold),
		Data: map[string]any{
			"averageDailyBalance": r.AverageDailyBalance,
			"threshold":           LowAverageBalanceThreshold,
		},
	}, true
}

func negativeBalanceDays(r *model.RiskAnalysisResult) (model.Alert, bool) {
	if r.NegativeBalanceDays == 0 && r.MinimumBalance >= 0 {
		return model.Alert{}, false
	}
	return model.Alert{
		Code:     model.AlertNegativeBalanceDays,
		Severity: model.SeverityCritical,
		Title:    "Negative balance",
		Message: fmt.Sprintf("%d days closed negative, minimum balance %.2f",
			r.NegativeBalanceDays, r.MinimumBalance),
		Data: map[string]any{
			"negativeBalanceDays": r.NegativeBalanceDays,
			"minimumBalance":      r.MinimumBalance,
			"threshold":           0.0,
		},
	}, true
}

// revenueDiscrepancy compares stated annual revenue with deposits annualized
// over the combined period of all reports.
func revenueDiscrepancy(in Input) []model.Alert {
	stated := in.Application.StatedAnnualRevenue
	if stated <= 0 {
		return nil
	}
	var deposits float64
	var days int
	for _, rep := range in.Reports {
		if rep.RiskAnalysis == nil {
			continue
		}
		deposits += rep.RiskAnalysis.TotalDeposits
		days += rep.RiskAnalysis.PeriodDays
	}
	if days == 0 {
		return nil
	}
	annualized := deposits / float64(days) * daysPerYear
	discrepancy := math.Abs(stated-annualized) / stated
	if discrepancy <= RevenueDiscrepancyThreshold {
		return nil
	}
	return []model.Alert{{
		Code:     model.AlertRevenueDiscrepancy,
		Severity: revenueSeverity(discrepancy),
		Title:    "Revenue discrepancy",
		Message: fmt.Sprintf("stated revenue %.2f vs annualized deposits %.2f (%.1f%% apart)",
			stated, annualized, discrepancy*100),
		Data: map[string]any{
			"statedAnnualRevenue": stated,
			"totalDeposits":       deposits,
			"periodDays":          days,
			"annualizedDeposits":  annualized,
			"discrepancy":         discrepancy,
			"threshold":           RevenueDiscrepancyThreshold,
		},
	}}
}

func revenueSeverity(discrepancy float64) model.Severity {
	switch {
	case discrepancy >= 0.75:
		return model.SeverityCritical
	case discrepancy >= 0.50:
		return model.SeverityHigh
	case discrepancy >= 0.35:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// timeInBusinessDiscrepancy compares the stated start date with the registry's
// registration date.
func timeInBusinessDiscrepancy(in Input) []model.Alert {
	stated := in.Application.StatedStartDate
	registered := in.Registry.RegistrationDate
	if stated.IsZero() || registered.IsZero() {
		return nil
	}
	months := math.Abs(stated.Sub(registered).Hours()/24) / daysPerMonth
	if months <= TimeInBusinessMonths {
		return nil
	}
	return []model.Alert{{
		Code:     model.AlertTimeInBusinessDiscrepancy,
		Severity: timeInBusinessSeverity(months),
		Title:    "Time-in-business discrepancy",
		Message: fmt.Sprintf("stated start %s vs registry %s (%.1f months apart)",
			stated.Format("2006-01-02"), registered.Format("2006-01-02"), months),
		Data: map[string]any{
			"statedStartDate":   stated.Format("2006-01-02"),
			"registryStartDate": registered.Format("2006-01-02"),
			"discrepancyMonths": months,
			"thresholdMonths":   TimeInBusinessMonths,
		},
	}}
}

func timeInBusinessSeverity(months float64) model.Severity {
	switch {
	case months > 24:
		return model.SeverityHigh
	case months > 12:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
