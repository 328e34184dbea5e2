package main

import (
	"fmt"
	"html"
	"regexp"

	"github.com/spf13/cobra"

	"StatementSentinel/internal/notifier"
)

var resetBudget bool

var tagPattern = regexp.MustCompile(`</?[a-z]+>`)

// plain strips the Telegram HTML markup from a formatted message.
func plain(msg string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(msg, ""))
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show today's verification budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if resetBudget {
			a.ledger.ResetDaily()
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), plain(notifier.FormatBudgetStatus(a.ledger.GetState())))
		return err
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses from the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rows, err := a.recorder.RecentAnalyses(historyLimit)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatHistory(rows)))
		return err
	},
}

func init() {
	budgetCmd.Flags().BoolVar(&resetBudget, "reset", false, "reset today's spend before printing")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of analyses to list")
}
