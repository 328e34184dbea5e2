package scheduler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StatementSentinel/internal/budget"
	"StatementSentinel/internal/model"
	"StatementSentinel/internal/recorder"
	"StatementSentinel/internal/verify"
	"StatementSentinel/internal/waterfall"
)

const statement = `WELLS FARGO BUSINESS CHOICE CHECKING
Account Number: 1234567890
Statement Period: 03/01/2024 - 03/31/2024
Beginning Balance $3,000.00

DEPOSITS
03/04 Square Deposit $1,250.00
03/11 Square Deposit $1,100.00
03/18 Square Deposit $1,300.00
WITHDRAWALS
03/06 Home Depot $240.10
03/20 Shell Oil $61.35
`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestScheduler(t *testing.T) (*Scheduler, *budget.DailyLedger) {
	t.Helper()
	ledger, err := budget.NewDailyLedger("", 200)
	require.NoError(t, err)
	o := waterfall.New(ledger, verify.NewMockServices(), waterfall.DefaultConfig())
	root := t.TempDir()
	s := NewScheduler(context.Background(), o, ledger, recorder.NewNoopRecorder(),
		filepath.Join(root, "inbox"), filepath.Join(root, "reports"), time.UTC, zerolog.Nop())
	require.NoError(t, os.MkdirAll(s.InboxDir, 0o755))
	return s, ledger
}

func TestSweepInbox(t *testing.T) {
	s, _ := newTestScheduler(t)
	write(t, filepath.Join(s.InboxDir, "acme.txt"), statement)
	write(t, filepath.Join(s.InboxDir, "acme.application.yaml"), `
application:
  business_name: Acme Bakery LLC
  state: CA
  stated_annual_revenue: 40000
registry:
  registration_date: 2019-06-15
`)
	write(t, filepath.Join(s.InboxDir, "globex", "march.txt"), statement)
	write(t, filepath.Join(s.InboxDir, "globex", "april.txt"),
		strings.ReplaceAll(strings.Replace(statement, "03/01/2024 - 03/31/2024", "04/01/2024 - 04/30/2024", 1), "\n03/", "\n04/"))
	write(t, filepath.Join(s.InboxDir, "junk.txt"), "lunch menu")
	write(t, filepath.Join(s.InboxDir, "notes.md"), "ignored")

	assert.Equal(t, 3, s.SweepInbox())

	data, err := os.ReadFile(filepath.Join(s.OutDir, "acme.report.json"))
	require.NoError(t, err)
	var rep model.AnalysisReport
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, "Acme Bakery LLC", rep.BusinessName)
	require.Len(t, rep.Statements, 1)
	assert.Equal(t, "Wells Fargo", rep.Statements[0].Statement.BankName)

	data, err = os.ReadFile(filepath.Join(s.OutDir, "globex.report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Len(t, rep.Statements, 2)

	_, err = os.Stat(filepath.Join(s.OutDir, "junk.report.json"))
	assert.True(t, os.IsNotExist(err))

	assert.Zero(t, s.SweepInbox())

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(s.InboxDir, "acme.txt"), later, later))
	assert.Equal(t, 1, s.SweepInbox())
}

func TestLoadSubmission_BadSidecar(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "x.txt"), statement)
	write(t, filepath.Join(dir, "x.application.yaml"), "application: [")
	_, err := LoadSubmission(filepath.Join(dir, "x.txt"))
	assert.Error(t, err)
}

func TestDailyReset(t *testing.T) {
	s, ledger := newTestScheduler(t)
	require.True(t, ledger.Reserve(45))
	s.dailyReset()
	assert.Equal(t, 200.0, ledger.Remaining())
}

func TestHandleCommand(t *testing.T) {
	s, ledger := newTestScheduler(t)
	require.True(t, ledger.Reserve(20))

	assert.Contains(t, s.HandleCommand("/budget"), "Remaining: $180.00")
	assert.Equal(t, "No analyses recorded yet.", s.HandleCommand("/history"))
	assert.Equal(t, "Processed 0 new submission(s).", s.HandleCommand("/sweep"))
	assert.Contains(t, s.HandleCommand("/start"), "/budget")
	assert.Empty(t, s.HandleCommand("   "))
}

func TestRegisterAll_RejectsBadCronExpression(t *testing.T) {
	s, _ := newTestScheduler(t)
	assert.NoError(t, s.RegisterAll("0 0 0 * * *", "0 */5 * * * *"))
	assert.Error(t, s.RegisterAll("not a cron", "0 */5 * * * *"))
}
