package recorder

import "StatementSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ *model.AnalysisReport) error    { return nil }
func (n *NoopRecorder) RecordBudgetEvent(_ *BudgetEvent) error          { return nil }
func (n *NoopRecorder) RecentAnalyses(_ int) ([]AnalysisSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                    { return nil }
