package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"StatementSentinel/internal/scheduler"
)

var runOnStart bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the inbox on a schedule and reset the daily budget at midnight",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		log := a.log

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		loc, err := a.cfg.Location()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(a.cfg.Inbox.Dir, 0o755); err != nil {
			return err
		}

		sched := scheduler.NewScheduler(ctx, a.orchestrator, a.ledger, a.recorder,
			a.cfg.Inbox.Dir, a.cfg.Inbox.OutDir, loc, log)
		if err := sched.RegisterAll(a.cfg.Schedule.ResetCron, a.cfg.Schedule.SweepCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if a.telegram != nil && a.cfg.Telegram.Polling {
			go a.telegram.StartPolling(ctx, sched.HandleCommand)
			log.Info().Msg("telegram polling started")
		}

		if runOnStart || os.Getenv("RUN_ON_START") == "true" {
			go sched.SweepInbox()
		}

		log.Info().Str("inbox", a.cfg.Inbox.Dir).Msg("statement sentinel is running, press Ctrl+C to stop")
		<-ctx.Done()
		log.Info().Msg("shutdown signal received, stopping")
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runOnStart, "sweep-now", false, "sweep the inbox once at startup")
}
