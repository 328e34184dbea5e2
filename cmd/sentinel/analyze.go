package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"StatementSentinel/internal/model"
	"StatementSentinel/internal/waterfall"
)

var (
	applicationPath string
	outputPath      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze STATEMENT.txt [STATEMENT.txt...]",
	Short: "Run the waterfall over one applicant's statement texts and print the report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		req, err := buildRequest(args, applicationPath)
		if err != nil {
			return err
		}
		rep, err := a.orchestrator.Analyze(cmd.Context(), req)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if outputPath != "" {
			return os.WriteFile(outputPath, data, 0o644)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&applicationPath, "application", "a", "", "YAML file with application and registry data")
	analyzeCmd.Flags().StringVarP(&outputPath, "out", "o", "", "write the report to this file instead of stdout")
}

// buildRequest reads statement texts and the optional application sidecar.
func buildRequest(paths []string, appPath string) (waterfall.Request, error) {
	var req waterfall.Request
	for _, p := range paths {
		text, err := os.ReadFile(p)
		if err != nil {
			return req, fmt.Errorf("read statement: %w", err)
		}
		req.Texts = append(req.Texts, string(text))
	}
	if appPath == "" {
		return req, nil
	}
	data, err := os.ReadFile(appPath)
	if err != nil {
		return req, fmt.Errorf("read application: %w", err)
	}
	var sidecar struct {
		Application model.ApplicationData `yaml:"application"`
		Registry    model.RegistryData    `yaml:"registry"`
	}
	if err := yaml.Unmarshal(data, &sidecar); err != nil {
		return req, fmt.Errorf("parse application: %w", err)
	}
	req.Application = sidecar.Application
	req.Registry = sidecar.Registry
	return req, nil
}
