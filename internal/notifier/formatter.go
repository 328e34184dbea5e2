package notifier

import (
	"fmt"
	"html"
	"strings"

	"StatementSentinel/internal/budget"
	"StatementSentinel/internal/model"
	"StatementSentinel/internal/recorder"
)

var recommendationIcons = map[model.Recommendation]string{
	model.RecommendApprove: "✅",
	model.RecommendReview:  "🔎",
	model.RecommendDecline: "⛔",
}

var severityIcons = map[model.Severity]string{
	model.SeverityCritical: "🔴",
	model.SeverityHigh:     "🟠",
	model.SeverityMedium:   "🟡",
	model.SeverityLow:      "⚪",
}

// FormatExecutiveSummary formats an analysis report into a Telegram message.
func FormatExecutiveSummary(rep *model.AnalysisReport) string {
	var b strings.Builder
	sum := rep.ExecutiveSummary

	name := rep.BusinessName
	if name == "" {
		name = "Unnamed business"
	}
	b.WriteString(fmt.Sprintf("📄 <b>%s</b> | %s\n", html.EscapeString(name), rep.CreatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Analysis: <code>%s</code>\n\n", rep.ID))

	b.WriteString(fmt.Sprintf("%s <b>%s</b>  score %d (grade %s, confidence %s)\n",
		recommendationIcons[sum.Recommendation], sum.Recommendation, sum.FinalScore, sum.Grade, sum.ConfidenceLevel))
	p4 := rep.WaterfallResults.Phase4
	b.WriteString(fmt.Sprintf("Internal score: %d, external adjustment %+d\n", p4.BaseScore, p4.Adjustment))
	b.WriteString(fmt.Sprintf("Verification spend: $%.2f (saved $%.2f)\n", sum.AmountSpent, sum.AmountSaved))

	if len(rep.Alerts) > 0 {
		b.WriteString("\n<b>Alerts:</b>\n")
		for _, a := range rep.Alerts {
			b.WriteString(fmt.Sprintf("  %s %s: %s\n", severityIcons[a.Severity], a.Severity, html.EscapeString(a.Message)))
		}
	}

	if len(sum.SkippedChecks) > 0 {
		b.WriteString("\n<b>Skipped checks:</b>\n")
		for _, s := range sum.SkippedChecks {
			b.WriteString(fmt.Sprintf("  %s: %s\n", s.Service, s.Reason))
		}
	}
	return b.String()
}

// FormatBudgetStatus formats the daily ledger state for display.
func FormatBudgetStatus(state budget.State) string {
	var b strings.Builder
	b.WriteString("📦 <b>Verification budget</b>\n\n")
	b.WriteString(fmt.Sprintf("Day: %s\n", state.Day))
	b.WriteString(fmt.Sprintf("Daily limit: $%s\n", state.DailyLimit.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Spent: $%s\n", state.Spent.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Remaining: $%s\n", state.Remaining().StringFixed(2)))
	b.WriteString(fmt.Sprintf("Reservations: %d | releases: %d | rejections: %d\n",
		state.Reservations, state.Releases, state.Rejections))
	if !state.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Updated: %s\n", state.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

// FormatHistory formats recent analyses, newest first.
func FormatHistory(rows []recorder.AnalysisSummary) string {
	if len(rows) == 0 {
		return "No analyses recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent analyses</b>\n\n")
	for _, r := range rows {
		name := r.BusinessName
		if name == "" {
			name = r.ID
		}
		b.WriteString(fmt.Sprintf("%s %s  %d/%s  %s  $%.0f\n",
			r.CreatedAt.Format("01-02 15:04"), html.EscapeString(name), r.FinalScore, r.Grade, r.Recommendation, r.AmountSpent))
	}
	return b.String()
}
