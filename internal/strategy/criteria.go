package strategy

import (
	"math"

	"StatementSentinel/internal/model"
)

// CriteriaInput is what the phase-2 checklist looks at.
type CriteriaInput struct {
	InternalScore       int
	TransactionCount    int
	StatementDays       int
	AverageDailyBalance float64
	RiskLevel           model.RiskLevel
	NSFCount            int
}

// Criterion is one weighted checklist item. AtMost flips the comparison so the
// actual value must not exceed the threshold.
type Criterion struct {
	Name      string
	Threshold float64
	Weight    float64
	AtMost    bool
	Actual    func(CriteriaInput) float64
}

// DefaultCriteria is the phase-2 checklist. Weights sum to 1.
var DefaultCriteria = []Criterion{
	{Name: "minimum internal score", Threshold: 600, Weight: 0.25,
		Actual: func(in CriteriaInput) float64 { return float64(in.InternalScore) }},
	{Name: "minimum transaction count", Threshold: 10, Weight: 0.15,
		Actual: func(in CriteriaInput) float64 { return float64(in.TransactionCount) }},
	{Name: "minimum statement days", Threshold: 30, Weight: 0.15,
		Actual: func(in CriteriaInput) float64 { return float64(in.StatementDays) }},
	{Name: "minimum average balance", Threshold: 1000, Weight: 0.15,
		Actual: func(in CriteriaInput) float64 { return in.AverageDailyBalance }},
	{Name: "maximum risk level", Threshold: float64(model.RiskMedium.Rank()), Weight: 0.15, AtMost: true,
		Actual: func(in CriteriaInput) float64 { return float64(in.RiskLevel.Rank()) }},
	{Name: "maximum NSF count", Threshold: 2, Weight: 0.15, AtMost: true,
		Actual: func(in CriteriaInput) float64 { return float64(in.NSFCount) }},
}

// EvaluateCriteria scores the checklist and returns the weighted pass ratio,
// rounded to four places.
func EvaluateCriteria(in CriteriaInput, criteria []Criterion) ([]model.CriterionResult, float64) {
	results := make([]model.CriterionResult, 0, len(criteria))
	var passed, total float64
	for _, c := range criteria {
		actual := c.Actual(in)
		ok := actual >= c.Threshold
		if c.AtMost {
			ok = actual <= c.Threshold
		}
		total += c.Weight
		if ok {
			passed += c.Weight
		}
		results = append(results, model.CriterionResult{
			Name:      c.Name,
			Threshold: c.Threshold,
			Actual:    actual,
			Weight:    c.Weight,
			Passed:    ok,
		})
	}
	if total == 0 {
		return results, 0
	}
	return results, math.Round(passed/total*1e4) / 1e4
}
