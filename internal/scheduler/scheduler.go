package scheduler

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StatementSentinel/internal/budget"
	"StatementSentinel/internal/notifier"
	"StatementSentinel/internal/recorder"
	"StatementSentinel/internal/waterfall"
)

// processedTTL bounds how long a swept file is remembered. A file that is
// still in the inbox after that is analyzed again.
const processedTTL = 24 * time.Hour

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron         *cron.Cron
	Orchestrator *waterfall.Orchestrator
	Ledger       *budget.DailyLedger
	Recorder     recorder.Recorder
	InboxDir     string
	OutDir       string
	Ctx          context.Context

	processed *cache.Cache
	sweepMu   sync.Mutex
	log       zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, o *waterfall.Orchestrator, ledger *budget.DailyLedger, rec recorder.Recorder, inboxDir, outDir string, loc *time.Location, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Orchestrator: o,
		Ledger:       ledger,
		Recorder:     rec,
		InboxDir:     inboxDir,
		OutDir:       outDir,
		Ctx:          ctx,
		processed:    cache.New(processedTTL, time.Hour),
		log:          log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the daily budget reset and the inbox sweep.
func (s *Scheduler) RegisterAll(resetCron, sweepCron string) error {
	if _, err := s.Cron.AddFunc(resetCron, s.dailyReset); err != nil {
		return fmt.Errorf("register daily reset: %w", err)
	}
	if _, err := s.Cron.AddFunc(sweepCron, func() { s.SweepInbox() }); err != nil {
		return fmt.Errorf("register inbox sweep: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) dailyReset() {
	before := s.Ledger.GetState()
	s.Ledger.ResetDaily()
	after := s.Ledger.GetState()
	s.log.Info().Str("spent", before.Spent.StringFixed(2)).Msg("daily budget reset")

	if err := s.Recorder.RecordBudgetEvent(&recorder.BudgetEvent{
		EventType:  "DAILY_RESET",
		Amount:     before.Spent.InexactFloat64(),
		SpentAfter: after.Spent.InexactFloat64(),
		Remaining:  after.Remaining().InexactFloat64(),
		Note:       before.Day,
	}); err != nil {
		s.log.Error().Err(err).Msg("record budget event")
	}
}

// SweepInbox analyzes every submission not seen since it last changed and
// returns how many it processed. Overlapping sweeps are skipped.
func (s *Scheduler) SweepInbox() int {
	if !s.sweepMu.TryLock() {
		s.log.Debug().Msg("sweep already running")
		return 0
	}
	defer s.sweepMu.Unlock()

	paths, err := ScanInbox(s.InboxDir)
	if err != nil {
		s.log.Error().Err(err).Msg("scan inbox")
		return 0
	}

	n := 0
	for _, path := range paths {
		if s.Ctx.Err() != nil {
			break
		}
		key, err := fingerprint(path)
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("stat submission")
			continue
		}
		if _, seen := s.processed.Get(key); seen {
			continue
		}
		s.processed.Set(key, struct{}{}, cache.DefaultExpiration)
		s.process(path)
		n++
	}
	return n
}

func (s *Scheduler) process(path string) {
	log := s.log.With().Str("path", path).Logger()
	sub, err := LoadSubmission(path)
	if err != nil {
		log.Error().Err(err).Msg("load submission")
		return
	}
	rep, err := s.Orchestrator.Analyze(s.Ctx, sub.Request)
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		return
	}
	out, err := WriteReport(s.OutDir, sub.Name, rep)
	if err != nil {
		log.Error().Err(err).Msg("write report")
		return
	}
	log.Info().Str("report", out).Str("recommendation", string(rep.ExecutiveSummary.Recommendation)).Msg("submission analyzed")
}

// fingerprint identifies a submission by path and modification time, so an
// edited file is picked up again.
func fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s@%d", path, info.ModTime().UnixNano()), nil
}

// HandleCommand processes a Telegram command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/budget":
		return notifier.FormatBudgetStatus(s.Ledger.GetState())
	case "/history":
		rows, err := s.Recorder.RecentAnalyses(10)
		if err != nil {
			s.log.Error().Err(err).Msg("load history")
			return "History is unavailable."
		}
		return notifier.FormatHistory(rows)
	case "/sweep":
		return fmt.Sprintf("Processed %d new submission(s).", s.SweepInbox())
	default:
		return "Commands:\n• /budget: today's verification budget\n• /history: recent analyses\n• /sweep: scan the inbox now"
	}
}
