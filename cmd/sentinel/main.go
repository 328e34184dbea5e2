package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string
	useMocks   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Analyze bank statements and gate paid business verification on the result",
	Long: `Statement Sentinel reads bank statement text, scores the applicant's cash flow,
raises alerts and only pays for registry, credit and verification checks when the
free signals justify the spend.`,
	SilenceUsage: true,
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "path to the YAML config")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file loaded before the config")
	rootCmd.PersistentFlags().BoolVar(&useMocks, "mock", false, "use mock verification services")

	rootCmd.AddCommand(analyzeCmd, runCmd, budgetCmd, historyCmd)
}
