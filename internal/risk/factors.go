package risk

import (
	"fmt"
	"math"

	"StatementSentinel/internal/calculator"
	"StatementSentinel/internal/model"
)

func scoreNSF(count int) model.RiskFactor {
	return model.RiskFactor{
		Name:       "nsf_events",
		Points:     math.Min(float64(count)*nsfPointsEach, nsfPointsCap),
		Commentary: fmt.Sprintf("%d NSF/returned items", count),
	}
}

func scoreAverageBalance(avg float64) model.RiskFactor {
	var points float64
	switch {
	case avg < 0:
		points = 25
	case avg < 500:
		points = 15
	case avg < 1000:
		points = 5
	}
	return model.RiskFactor{
		Name:       "average_balance",
		Points:     points,
		Commentary: fmt.Sprintf("average balance %.2f", avg),
	}
}

func scoreNegativeDays(days int) model.RiskFactor {
	return model.RiskFactor{
		Name:       "negative_balance_days",
		Points:     math.Min(float64(days)*negativeDayPoints, negativeDayCap),
		Commentary: fmt.Sprintf("%d days closed negative", days),
	}
}

func scoreNetOutflow(t calculator.Totals) model.RiskFactor {
	f := model.RiskFactor{
		Name:       "net_outflow",
		Commentary: fmt.Sprintf("net cash flow %+.2f", t.Net()),
	}
	if t.Withdrawals > t.Deposits {
		f.Points = netOutflowPoints
	}
	return f
}
