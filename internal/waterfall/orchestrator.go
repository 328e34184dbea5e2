// Package waterfall runs the four-phase, cost-gated analysis of a loan
// applicant's bank statements.
package waterfall

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"StatementSentinel/internal/alerts"
	"StatementSentinel/internal/budget"
	"StatementSentinel/internal/logger"
	"StatementSentinel/internal/model"
	"StatementSentinel/internal/notifier"
	"StatementSentinel/internal/parser"
	"StatementSentinel/internal/recorder"
	"StatementSentinel/internal/strategy"
	"StatementSentinel/internal/verify"
)

// Check is one paid phase-3 service with its price and score gate.
type Check struct {
	Service model.Service
	Cost    float64
	Gate    int
}

// DefaultChecks lists the paid services cheapest first; gates increase.
var DefaultChecks = []Check{
	{model.ServiceBusinessRegistry, 5, 550},
	{model.ServiceCreditCheck, 15, 650},
	{model.ServiceBusinessVerification, 25, 720},
}

// Config holds the orchestrator's limits.
type Config struct {
	PerAnalysisBudget float64
	PassThreshold     float64
	CallTimeout       time.Duration
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		PerAnalysisBudget: 50,
		PassThreshold:     0.70,
		CallTimeout:       10 * time.Second,
	}
}

// Request is one analysis submission.
type Request struct {
	Texts       []string
	Application model.ApplicationData
	Registry    model.RegistryData
}

// Orchestrator runs analyses. It is safe for concurrent use; the daily ledger
// is the only state shared between analyses.
type Orchestrator struct {
	cfg      Config
	checks   []Check
	daily    budget.Ledger
	services verify.Services
	parser   *parser.Parser
	alerts   *alerts.Engine
	criteria []strategy.Criterion
	recorder recorder.Recorder
	notifier notifier.Notifier
	now      func() time.Time
	newID    func() string
	log      zerolog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

func WithParser(p *parser.Parser) Option         { return func(o *Orchestrator) { o.parser = p } }
func WithAlertsEngine(e *alerts.Engine) Option   { return func(o *Orchestrator) { o.alerts = e } }
func WithRecorder(r recorder.Recorder) Option    { return func(o *Orchestrator) { o.recorder = r } }
func WithNotifier(n notifier.Notifier) Option    { return func(o *Orchestrator) { o.notifier = n } }
func WithLogger(l zerolog.Logger) Option         { return func(o *Orchestrator) { o.log = l } }
func WithClock(now func() time.Time) Option      { return func(o *Orchestrator) { o.now = now } }
func WithIDGenerator(f func() string) Option     { return func(o *Orchestrator) { o.newID = f } }
func WithChecks(checks []Check) Option           { return func(o *Orchestrator) { o.checks = checks } }
func WithCriteria(c []strategy.Criterion) Option { return func(o *Orchestrator) { o.criteria = c } }

// New creates an orchestrator drawing phase-3 spend from daily.
func New(daily budget.Ledger, services verify.Services, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		checks:   DefaultChecks,
		daily:    daily,
		services: services,
		alerts:   alerts.NewEngine(),
		criteria: strategy.DefaultCriteria,
		recorder: recorder.NewNoopRecorder(),
		notifier: notifier.NoopNotifier{},
		now:      time.Now,
		newID:    uuid.NewString,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.parser == nil {
		o.parser = parser.New(parser.WithLogger(o.log))
	}
	o.log = o.log.With().Str("component", "waterfall").Logger()
	return o
}

// Analyze runs phases 1 to 4 over req. Parse and type errors from phase 1 are
// returned as is; phase-3 failures only degrade the report.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*model.AnalysisReport, error) {
	id := o.newID()
	log := o.log.With().Str("analysis", id).Logger()
	ctx = logger.WithContext(ctx, log)

	p1, err := o.phase1(req)
	if err != nil {
		log.Warn().Err(err).Msg("phase 1 failed")
		return nil, err
	}
	log.Info().Int("internal_score", p1.result.InternalScore).Int("alerts", len(p1.alerts)).Msg("phase 1 complete")

	analysis := budget.NewAnalysisBudget(o.cfg.PerAnalysisBudget)
	p2 := o.phase2(p1, analysis)
	log.Info().Float64("pass_ratio", p2.PassRatio).Bool("proceed", p2.ProceedToPaid).Msg("phase 2 complete")

	p3, skipped := o.phase3(ctx, req.Application.Identity(), p1.result.InternalScore, p2, analysis)
	spent := analysis.Spent()
	if spent > o.cfg.PerAnalysisBudget {
		return nil, fmt.Errorf("analysis spent %.2f of %.2f: %w", spent, o.cfg.PerAnalysisBudget, model.ErrBudgetExceeded)
	}

	alertList := p1.alerts
	if registry, ok := mergeRegistry(req.Registry, p3.Registry); ok {
		alertList = o.alerts.GenerateAlerts(req.Application, p1.reports, registry)
	}

	final := strategy.Finalize(p1.result.InternalScore, p3, alertList)
	cost := o.costAnalysis(spent)

	rep := &model.AnalysisReport{
		ID:           id,
		CreatedAt:    o.now(),
		BusinessName: req.Application.BusinessName,
		ExecutiveSummary: model.ExecutiveSummary{
			FinalScore:      final.Phase4.FinalScore,
			Grade:           final.Grade,
			ConfidenceLevel: final.Confidence,
			Recommendation:  final.Recommendation,
			AmountSpent:     cost.TotalCost,
			AmountSaved:     cost.CostSavings,
			SkippedChecks:   skipped,
		},
		WaterfallResults: model.WaterfallDecision{
			Phase1:             p1.result,
			Phase2:             p2,
			Phase3:             p3,
			Phase4:             final.Phase4,
			ExternalAPIsCalled: calledServices(p3.Calls),
			Skipped:            skipped,
			CostAnalysis:       cost,
		},
		Alerts:       alertList,
		RiskAnalysis: p1.aggregate,
		Statements:   p1.reports,
	}
	log.Info().Int("final_score", rep.ExecutiveSummary.FinalScore).
		Str("recommendation", string(rep.ExecutiveSummary.Recommendation)).
		Float64("spent", cost.TotalCost).Msg("analysis complete")

	o.publish(ctx, rep)
	return rep, nil
}

// publish records the report and notifies reviewers of flagged ones. Neither
// failure affects the analysis.
func (o *Orchestrator) publish(ctx context.Context, rep *model.AnalysisReport) {
	log := logger.FromContext(ctx)
	if err := o.recorder.RecordAnalysis(rep); err != nil {
		log.Error().Err(err).Msg("record analysis")
	}
	if spent := rep.ExecutiveSummary.AmountSpent; spent > 0 {
		if err := o.recorder.RecordBudgetEvent(&recorder.BudgetEvent{
			EventType: "SPEND",
			Amount:    spent,
			Remaining: rep.WaterfallResults.CostAnalysis.DailyBudgetRemaining,
			Note:      rep.ID,
		}); err != nil {
			log.Error().Err(err).Msg("record budget event")
		}
	}
	if !Flagged(rep) {
		return
	}
	if err := o.notifier.NotifyReport(ctx, rep); err != nil {
		log.Error().Err(err).Msg("notify flagged analysis")
	}
}

// Flagged reports whether rep needs a reviewer's attention: a decline or any
// critical alert.
func Flagged(rep *model.AnalysisReport) bool {
	if rep.ExecutiveSummary.Recommendation == model.RecommendDecline {
		return true
	}
	for _, a := range rep.Alerts {
		if a.Severity == model.SeverityCritical {
			return true
		}
	}
	return false
}

func (o *Orchestrator) costAnalysis(spent float64) model.CostAnalysis {
	full := 0.0
	for _, c := range o.checks {
		full += c.Cost
	}
	ca := model.CostAnalysis{
		TotalCost:            spent,
		FullPrice:            full,
		CostSavings:          full - spent,
		PerAnalysisBudget:    o.cfg.PerAnalysisBudget,
		DailyBudgetRemaining: o.daily.Remaining(),
	}
	if o.cfg.PerAnalysisBudget > 0 {
		ca.BudgetUtilization = spent / o.cfg.PerAnalysisBudget * 100
	}
	return ca
}

// mergeRegistry fills a missing registration date from the phase-3 lookup.
func mergeRegistry(supplied model.RegistryData, found *model.RegistryResult) (model.RegistryData, bool) {
	if !supplied.RegistrationDate.IsZero() || found == nil || found.RegistrationDate.IsZero() {
		return supplied, false
	}
	supplied.RegistrationDate = found.RegistrationDate
	if supplied.Status == "" {
		supplied.Status = found.Status
	}
	return supplied, true
}

func calledServices(calls []model.ExternalCall) []model.Service {
	out := make([]model.Service, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Service)
	}
	return out
}
