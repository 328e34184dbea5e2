package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"StatementSentinel/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			business_name  TEXT,
			internal_score INTEGER,
			pass_ratio     REAL,
			final_score    INTEGER,
			grade          TEXT,
			confidence     TEXT,
			recommendation TEXT,
			amount_spent   REAL,
			amount_saved   REAL,
			alert_count    INTEGER,
			report_json    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ts ON analyses(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id TEXT NOT NULL,
			code        TEXT,
			severity    TEXT,
			title       TEXT,
			message     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_analysis ON alerts(analysis_id)`,

		`CREATE TABLE IF NOT EXISTS external_calls (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id TEXT NOT NULL,
			service     TEXT,
			cost        REAL,
			success     INTEGER,
			error       TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calls_analysis ON external_calls(analysis_id)`,

		`CREATE TABLE IF NOT EXISTS budget_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			event_type  TEXT,
			amount      REAL,
			spent_after REAL,
			remaining   REAL,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_budget_ts ON budget_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordAnalysis writes the report, its alerts and its external calls in one
// transaction.
func (r *SQLiteRecorder) RecordAnalysis(rep *model.AnalysisReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blob, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sum := rep.ExecutiveSummary
	wf := rep.WaterfallResults
	if _, err := tx.Exec(`INSERT INTO analyses
		(id, timestamp, business_name, internal_score, pass_ratio, final_score,
		 grade, confidence, recommendation, amount_spent, amount_saved, alert_count, report_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rep.ID, rep.CreatedAt.Unix(), rep.BusinessName, wf.Phase1.InternalScore, wf.Phase2.PassRatio,
		sum.FinalScore, string(sum.Grade), string(sum.ConfidenceLevel), string(sum.Recommendation),
		sum.AmountSpent, sum.AmountSaved, len(rep.Alerts), string(blob),
	); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	for _, a := range rep.Alerts {
		if _, err := tx.Exec(`INSERT INTO alerts
			(analysis_id, code, severity, title, message) VALUES (?,?,?,?,?)`,
			rep.ID, a.Code, string(a.Severity), a.Title, a.Message,
		); err != nil {
			return fmt.Errorf("insert alert: %w", err)
		}
	}

	for _, c := range wf.Phase3.Calls {
		if _, err := tx.Exec(`INSERT INTO external_calls
			(analysis_id, service, cost, success, error, duration_ms) VALUES (?,?,?,?,?,?)`,
			rep.ID, string(c.Service), c.Cost, c.Success, c.Error, c.Duration.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert external call: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) RecordBudgetEvent(evt *BudgetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO budget_events
		(timestamp, event_type, amount, spent_after, remaining, note)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.EventType, evt.Amount, evt.SpentAfter, evt.Remaining, evt.Note,
	)
	return err
}

// RecentAnalyses returns up to limit analyses, newest first.
func (r *SQLiteRecorder) RecentAnalyses(limit int) ([]AnalysisSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, business_name, internal_score, final_score,
		grade, confidence, recommendation, amount_spent, alert_count
		FROM analyses ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisSummary
	for rows.Next() {
		var (
			s                            AnalysisSummary
			ts                           int64
			grade, confidence, recommend string
		)
		if err := rows.Scan(&s.ID, &ts, &s.BusinessName, &s.InternalScore, &s.FinalScore,
			&grade, &confidence, &recommend, &s.AmountSpent, &s.AlertCount); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		s.CreatedAt = time.Unix(ts, 0).UTC()
		s.Grade = model.Grade(grade)
		s.Confidence = model.Confidence(confidence)
		s.Recommendation = model.Recommendation(recommend)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

var (
	_ Recorder = (*SQLiteRecorder)(nil)
	_ Recorder = (*NoopRecorder)(nil)
)
