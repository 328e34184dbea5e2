package recorder

import (
	"time"

	"StatementSentinel/internal/model"
)

// BudgetEvent records a change to the daily verification budget.
type BudgetEvent struct {
	EventType  string // "DAILY_RESET" or "SPEND"
	Amount     float64
	SpentAfter float64
	Remaining  float64
	Note       string
}

// AnalysisSummary is one row of analysis history.
type AnalysisSummary struct {
	ID             string
	CreatedAt      time.Time
	BusinessName   string
	InternalScore  int
	FinalScore     int
	Grade          model.Grade
	Confidence     model.Confidence
	Recommendation model.Recommendation
	AmountSpent    float64
	AlertCount     int
}

// Recorder persists analysis history.
type Recorder interface {
	RecordAnalysis(report *model.AnalysisReport) error
	RecordBudgetEvent(evt *BudgetEvent) error
	RecentAnalyses(limit int) ([]AnalysisSummary, error)
	Close() error
}
