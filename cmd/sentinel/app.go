package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"StatementSentinel/internal/budget"
	"StatementSentinel/internal/config"
	"StatementSentinel/internal/logger"
	"StatementSentinel/internal/model"
	"StatementSentinel/internal/notifier"
	"StatementSentinel/internal/parser"
	"StatementSentinel/internal/recorder"
	"StatementSentinel/internal/verify"
	"StatementSentinel/internal/waterfall"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg          *config.Config
	log          zerolog.Logger
	ledger       *budget.DailyLedger
	recorder     recorder.Recorder
	telegram     *notifier.TelegramNotifier
	orchestrator *waterfall.Orchestrator
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if useMocks {
		cfg.Services.Mock = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogLevel)
	a := &app{cfg: cfg, log: log}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a.ledger, err = budget.NewDailyLedger(cfg.Budget.StateFile, cfg.Budget.Daily,
		budget.WithLocation(loc), budget.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("init budget ledger: %w", err)
	}

	a.recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			a.recorder = sr
		}
	}

	var n notifier.Notifier = notifier.NoopNotifier{}
	if cfg.TelegramEnabled() {
		a.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		n = a.telegram
	}

	p := parser.New(append(categoryOptions(cfg.CategoryRules), parser.WithLogger(log))...)
	a.orchestrator = waterfall.New(a.ledger, services(cfg, log), waterfall.Config{
		PerAnalysisBudget: cfg.Budget.PerAnalysis,
		PassThreshold:     cfg.Budget.PassThreshold,
		CallTimeout:       cfg.Services.CallTimeout,
	},
		waterfall.WithParser(p),
		waterfall.WithRecorder(a.recorder),
		waterfall.WithNotifier(n),
		waterfall.WithLogger(log),
	)
	return a, nil
}

func (a *app) Close() error {
	return a.recorder.Close()
}

func services(cfg *config.Config, log zerolog.Logger) verify.Services {
	if cfg.Services.Mock {
		log.Info().Msg("using mock verification services")
		return verify.NewMockServices()
	}
	client := func(s config.ServiceConfig) verify.ClientConfig {
		return verify.ClientConfig{
			BaseURL:        s.BaseURL,
			APIKey:         s.APIKey,
			Proxy:          cfg.Proxy,
			Timeout:        cfg.Services.CallTimeout,
			RequestsPerSec: s.RequestsPerSec,
		}
	}
	return verify.Services{
		Registry:     verify.NewRegistryClient(client(cfg.Services.Registry)),
		Credit:       verify.NewCreditClient(client(cfg.Services.Credit)),
		Verification: verify.NewVerificationClient(client(cfg.Services.Verification)),
	}
}

var ruleSections = map[string]model.Section{
	"deposits":    model.SectionDeposits,
	"withdrawals": model.SectionWithdrawals,
	"electronic":  model.SectionElectronic,
	"fees":        model.SectionFees,
}

// categoryOptions turns configured keyword rules into parser options.
func categoryOptions(rules map[string][]config.CategoryRule) []parser.Option {
	var opts []parser.Option
	for name, rs := range rules {
		section, ok := ruleSections[strings.ToLower(name)]
		if !ok {
			continue
		}
		converted := make([]parser.CategoryRule, 0, len(rs))
		for _, r := range rs {
			converted = append(converted, parser.CategoryRule{Keywords: r.Keywords, Category: r.Category})
		}
		opts = append(opts, parser.WithCategoryRules(section, converted))
	}
	return opts
}
