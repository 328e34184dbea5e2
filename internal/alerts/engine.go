// Package alerts evaluates an ordered catalog of independent rules against
// statement risk metrics and applicant-supplied reference data.
package alerts

import (
	"StatementSentinel/internal/model"
)

// Input is what every rule sees.
type Input struct {
	Application model.ApplicationData
	Reports     []model.StatementReport
	Registry    model.RegistryData
}

// Rule is one catalog entry. Evaluate must be pure and may return zero or
// more alerts.
type Rule struct {
	Code     string
	Evaluate func(in Input) []model.Alert
}

// DefaultRules is the catalog in evaluation order.
var DefaultRules = []Rule{
	{model.AlertHighNSFCount, perStatement(highNSFCount)},
	{model.AlertLowAverageBalance, perStatement(lowAverageBalance)},
	{model.AlertNegativeBalanceDays, perStatement(negativeBalanceDays)},
	{model.AlertRevenueDiscrepancy, revenueDiscrepancy},
	{model.AlertTimeInBusinessDiscrepancy, timeInBusinessDiscrepancy},
}

// Engine runs a rule catalog. It holds no state between calls.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine over rules, or over DefaultRules if none are given.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Engine{rules: rules}
}

// GenerateAlerts evaluates every rule in order and concatenates their alerts.
func (e *Engine) GenerateAlerts(app model.ApplicationData, reports []model.StatementReport, registry model.RegistryData) []model.Alert {
	in := Input{Application: app, Reports: reports, Registry: registry}
	alerts := []model.Alert{}
	for _, r := range e.rules {
		alerts = append(alerts, r.Evaluate(in)...)
	}
	return alerts
}

// perStatement lifts a single-report check into a rule over all reports,
// tagging each alert with the report's index.
func perStatement(check func(*model.RiskAnalysisResult) (model.Alert, bool)) func(Input) []model.Alert {
	return func(in Input) []model.Alert {
		var out []model.Alert
		for i, rep := range in.Reports {
			if rep.RiskAnalysis == nil {
				continue
			}
			if a, ok := check(rep.RiskAnalysis); ok {
				a.Data["statementIndex"] = i
				out = append(out, a)
			}
		}
		return out
	}
}
