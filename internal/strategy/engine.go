// Package strategy turns statement metrics and verification results into the
// scores the waterfall gates and reports on.
package strategy

import (
	"fmt"
	"math"

	"StatementSentinel/internal/model"
)

// Score scale shared by the internal and final scores.
const (
	MinScore = 300
	MaxScore = 850

	riskPointWeight = 5.5
)

// AlertPenalties is the internal-score deduction per alert of each severity.
var AlertPenalties = []struct {
	Severity model.Severity
	Points   float64
}{
	{model.SeverityCritical, 50},
	{model.SeverityHigh, 30},
	{model.SeverityMedium, 15},
	{model.SeverityLow, 5},
}

// Grades maps a final score to a letter; the first band reached wins.
var Grades = []struct {
	MinScore int
	Grade    model.Grade
}{
	{750, model.GradeA},
	{680, model.GradeB},
	{620, model.GradeC},
	{560, model.GradeD},
}

// mapGrade maps a final score to a grade.
func mapGrade(score int) model.Grade {
	for _, g := range Grades {
		if score >= g.MinScore {
			return g.Grade
		}
	}
	return model.GradeF
}

// clampScore rounds v and bounds it to the score scale.
func clampScore(v float64) int {
	return int(math.Max(MinScore, math.Min(MaxScore, math.Round(v))))
}

// InternalScore derives the phase-1 confidence score from the aggregate risk
// analysis and the alerts raised so far. The factors list every deduction.
func InternalScore(r *model.RiskAnalysisResult, alerts []model.Alert) (int, []model.RiskFactor) {
	riskPoints := r.RiskScore * riskPointWeight
	factors := []model.RiskFactor{{
		Name:       "Risk score",
		Points:     -riskPoints,
		Commentary: fmt.Sprintf("risk %.0f (%s)", r.RiskScore, r.RiskLevel),
	}}
	total := float64(MaxScore) - riskPoints

	counts := model.CountBySeverity(alerts)
	for _, p := range AlertPenalties {
		n := counts[p.Severity]
		if n == 0 {
			continue
		}
		deduction := float64(n) * p.Points
		total -= deduction
		factors = append(factors, model.RiskFactor{
			Name:       fmt.Sprintf("%s alerts", p.Severity),
			Points:     -deduction,
			Commentary: fmt.Sprintf("%d x %.0f", n, p.Points),
		})
	}
	return clampScore(total), factors
}
