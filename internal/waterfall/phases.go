package waterfall

import (
	"fmt"

	"StatementSentinel/internal/budget"
	"StatementSentinel/internal/model"
	"StatementSentinel/internal/parser"
	"StatementSentinel/internal/risk"
	"StatementSentinel/internal/strategy"
)

// phase1Output carries phase-1 artifacts the later phases need.
type phase1Output struct {
	result    model.Phase1Result
	reports   []model.StatementReport
	aggregate *model.RiskAnalysisResult
	alerts    []model.Alert
	days      int
}

// phase1 parses every document, analyzes each statement and the combined
// transaction history, and raises alerts. Every error here is fatal.
func (o *Orchestrator) phase1(req Request) (*phase1Output, error) {
	if len(req.Texts) == 0 {
		return nil, &parser.ParseFailure{Reason: "no statement text supplied"}
	}
	statements, err := o.parser.ParseAll(req.Texts)
	if err != nil {
		return nil, err
	}

	out := &phase1Output{reports: make([]model.StatementReport, 0, len(statements))}
	var all []model.Transaction
	for _, st := range statements {
		ra, err := risk.AnalyzeStatement(st)
		if err != nil {
			return nil, fmt.Errorf("analyze statement %s: %w", st.AccountNumber, err)
		}
		out.reports = append(out.reports, model.StatementReport{Statement: st, RiskAnalysis: ra})
		all = append(all, st.Transactions...)
		out.days += statementDays(st)
	}

	out.aggregate, err = risk.AnalyzeRisk(all, statements[0].Balances.Beginning)
	if err != nil {
		return nil, fmt.Errorf("analyze combined history: %w", err)
	}
	out.alerts = o.alerts.GenerateAlerts(req.Application, out.reports, req.Registry)

	score, factors := strategy.InternalScore(out.aggregate, out.alerts)
	out.result = model.Phase1Result{
		InternalScore:    score,
		StatementCount:   len(statements),
		TransactionCount: len(all),
		AlertCounts:      model.CountBySeverity(out.alerts),
		ScoreFactors:     factors,
	}
	return out, nil
}

// statementDays is the inclusive length of the statement period.
func statementDays(st *model.Statement) int {
	if st.PeriodEnd.Before(st.PeriodStart) {
		return 0
	}
	return int(st.PeriodEnd.Sub(st.PeriodStart).Hours()/24) + 1
}

// phase2 scores the criteria checklist.
func (o *Orchestrator) phase2(p1 *phase1Output, analysis *budget.AnalysisBudget) model.Phase2Result {
	in := strategy.CriteriaInput{
		InternalScore:       p1.result.InternalScore,
		TransactionCount:    p1.result.TransactionCount,
		StatementDays:       p1.days,
		AverageDailyBalance: p1.aggregate.AverageDailyBalance,
		RiskLevel:           p1.aggregate.RiskLevel,
		NSFCount:            p1.aggregate.NSFCount,
	}
	criteria, ratio := strategy.EvaluateCriteria(in, o.criteria)
	return model.Phase2Result{
		Criteria:      criteria,
		PassRatio:     ratio,
		PassThreshold: o.cfg.PassThreshold,
		ProceedToPaid: ratio >= o.cfg.PassThreshold && analysis.Remaining() > 0,
	}
}
