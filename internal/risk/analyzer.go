// Package risk composes calculator metrics into a bounded risk score.
package risk

import (
	"fmt"
	"math"

	"StatementSentinel/internal/calculator"
	"StatementSentinel/internal/model"
)

// Levels maps a score to a risk level; the first band whose MinScore the
// score reaches wins.
var Levels = []struct {
	MinScore float64
	Level    model.RiskLevel
}{
	{60, model.RiskHigh},
	{40, model.RiskMedium},
	{20, model.RiskLow},
}

const (
	nsfPointsEach     = 20.0
	nsfPointsCap      = 60.0
	negativeDayPoints = 5.0
	negativeDayCap    = 15.0
	netOutflowPoints  = 10.0
	maxRiskScore      = 100.0
)

// mapLevel returns the level for a score. It is monotonic in the score.
func mapLevel(score float64) model.RiskLevel {
	for _, b := range Levels {
		if score >= b.MinScore {
			return b.Level
		}
	}
	return model.RiskVeryLow
}

// AnalyzeRisk computes totals, NSF count and the balance trajectory, then
// scores them. Three or more NSF events alone put the score in the HIGH band.
func AnalyzeRisk(txns []model.Transaction, opening float64) (*model.RiskAnalysisResult, error) {
	totals, err := calculator.CalculateTotals(txns)
	if err != nil {
		return nil, fmt.Errorf("totals: %w", err)
	}
	bal, err := calculator.CalculateDailyBalance(txns, opening)
	if err != nil {
		return nil, fmt.Errorf("daily balance: %w", err)
	}
	nsf := calculator.CountNSF(txns)

	factors := []model.RiskFactor{
		scoreNSF(nsf),
		scoreAverageBalance(bal.AverageDailyBalance),
		scoreNegativeDays(bal.NegativeBalanceDays),
		scoreNetOutflow(totals),
	}
	score := 0.0
	for _, f := range factors {
		score += f.Points
	}
	score = math.Min(score, maxRiskScore)

	return &model.RiskAnalysisResult{
		TotalDeposits:       totals.Deposits,
		TotalWithdrawals:    totals.Withdrawals,
		NetCashFlow:         totals.Net(),
		NSFCount:            nsf,
		AverageDailyBalance: bal.AverageDailyBalance,
		PeriodDays:          bal.PeriodDays,
		MinimumBalance:      bal.MinimumBalance,
		MaximumBalance:      bal.MaximumBalance,
		EndingBalance:       bal.EndingBalance,
		NegativeBalanceDays: bal.NegativeBalanceDays,
		TransactionCount:    len(txns),
		RiskScore:           score,
		RiskLevel:           mapLevel(score),
		RiskFactors:         factors,
	}, nil
}

// AnalyzeStatement runs AnalyzeRisk seeded with the statement's beginning balance.
func AnalyzeStatement(st *model.Statement) (*model.RiskAnalysisResult, error) {
	return AnalyzeRisk(st.Transactions, st.Balances.Beginning)
}
