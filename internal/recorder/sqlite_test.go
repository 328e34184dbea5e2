package recorder

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StatementSentinel/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleReport(id string, at time.Time) *model.AnalysisReport {
	return &model.AnalysisReport{
		ID:           id,
		CreatedAt:    at,
		BusinessName: "Acme Bakery LLC",
		ExecutiveSummary: model.ExecutiveSummary{
			FinalScore:      652,
			Grade:           model.GradeC,
			ConfidenceLevel: model.ConfidenceMedium,
			Recommendation:  model.RecommendReview,
			AmountSpent:     5,
			AmountSaved:     40,
		},
		WaterfallResults: model.WaterfallDecision{
			Phase1: model.Phase1Result{InternalScore: 630},
			Phase3: model.Phase3Result{
				Executed: true,
				Calls: []model.ExternalCall{
					{Service: model.ServiceBusinessRegistry, Cost: 5, Success: true, Duration: 120 * time.Millisecond},
				},
			},
		},
		Alerts: []model.Alert{
			{Code: model.AlertLowAverageBalance, Severity: model.SeverityMedium, Title: "Low average balance"},
		},
	}
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSQLiteRecorder_RecordAnalysis(t *testing.T) {
	r := openTemp(t)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	require.NoError(t, r.RecordAnalysis(sampleReport("a-1", now)))
	require.NoError(t, r.RecordAnalysis(sampleReport("a-2", now.Add(time.Minute))))

	assert.Equal(t, 2, count(t, r.db, "analyses"))
	assert.Equal(t, 2, count(t, r.db, "alerts"))
	assert.Equal(t, 2, count(t, r.db, "external_calls"))

	recent, err := r.RecentAnalyses(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "a-2", recent[0].ID)
	assert.Equal(t, 630, recent[0].InternalScore)
	assert.Equal(t, 652, recent[0].FinalScore)
	assert.Equal(t, model.GradeC, recent[0].Grade)
	assert.Equal(t, 1, recent[0].AlertCount)
	assert.Equal(t, now.Add(time.Minute), recent[0].CreatedAt)
}

func TestSQLiteRecorder_DuplicateIDRollsBack(t *testing.T) {
	r := openTemp(t)
	now := time.Now()

	require.NoError(t, r.RecordAnalysis(sampleReport("dup", now)))
	assert.Error(t, r.RecordAnalysis(sampleReport("dup", now)))
	assert.Equal(t, 1, count(t, r.db, "alerts"))
}

func TestSQLiteRecorder_RecordBudgetEvent(t *testing.T) {
	r := openTemp(t)
	require.NoError(t, r.RecordBudgetEvent(&BudgetEvent{EventType: "DAILY_RESET", Remaining: 200}))
	assert.Equal(t, 1, count(t, r.db, "budget_events"))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordAnalysis(sampleReport("x", time.Now())))
	got, err := r.RecentAnalyses(10)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, r.Close())
}
