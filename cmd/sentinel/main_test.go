package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StatementSentinel/internal/config"
	"StatementSentinel/internal/model"
)

const statement = `PNC BANK BUSINESS CHECKING
Account Number: XXXXXX4821
Statement Period: 05/01/2024 - 05/31/2024
Beginning Balance $4,200.00

DEPOSITS AND OTHER CREDITS
05/02 Shopify Payout $2,310.00
05/16 Shopify Payout $1,980.00
CHECKS PAID
05/09 Check 1041 $450.00
`

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "sentinel", rootCmd.Use)
	assert.Contains(t, rootCmd.Short, "bank statements")

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "run", "budget", "history"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestBuildRequest(t *testing.T) {
	dir := t.TempDir()
	stmt := filepath.Join(dir, "may.txt")
	app := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(stmt, []byte(statement), 0o644))
	require.NoError(t, os.WriteFile(app, []byte("application:\n  business_name: Pixel Print Co\n  state: OR\n"), 0o644))

	req, err := buildRequest([]string{stmt}, app)
	require.NoError(t, err)
	assert.Len(t, req.Texts, 1)
	assert.Equal(t, "Pixel Print Co", req.Application.BusinessName)

	_, err = buildRequest([]string{filepath.Join(dir, "missing.txt")}, "")
	assert.Error(t, err)
}

func TestCategoryOptions(t *testing.T) {
	opts := categoryOptions(map[string][]config.CategoryRule{
		"Deposits": {{Keywords: []string{"shopify"}, Category: "Card Processing"}},
		"unknown":  {{Keywords: []string{"x"}, Category: "Y"}},
	})
	assert.Len(t, opts, 1)
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "Smith & Sons\n", plain("<b>Smith &amp; Sons</b>\n"))
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	stmt := filepath.Join(dir, "may.txt")
	cfgPath := filepath.Join(dir, "config.yaml")
	out := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(stmt, []byte(statement), 0o644))
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
budget:
  state_file: %s
database:
  sqlite_path: %s
category_rules:
  deposits:
    - keywords: [shopify]
      category: Ecommerce Payout
`, filepath.Join(dir, "budget.json"), filepath.Join(dir, "history.db"))), 0o644))

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"analyze", stmt, "--config", cfgPath, "--env-file", filepath.Join(dir, ".env"), "--mock", "--out", out})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var rep model.AnalysisReport
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.NotEmpty(t, rep.ID)
	require.Len(t, rep.Statements, 1)
	assert.Equal(t, "PNC", rep.Statements[0].Statement.BankName)
	assert.Equal(t, "Ecommerce Payout", rep.Statements[0].Statement.Transactions[0].Category)

	stdout.Reset()
	rootCmd.SetArgs([]string{"history", "--config", cfgPath, "--env-file", filepath.Join(dir, ".env"), "--mock"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "Recent analyses")
}
