package cli

import (
	"fmt"
	"strings"

	"github.com/pesaflow/pesaflow/internal/classification"
	"github.com/pesaflow/pesaflow/internal/insights"
	"github.com/pesaflow/pesaflow/internal/markov"
	"github.com/pesaflow/pesaflow/internal/model"
)

// RenderReport formats the full analysis for the terminal.
func RenderReport(ledger model.Ledger, stats markov.Stats, analysis *insights.Analysis) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Statement Analysis"))
	b.WriteString("\n\n")

	b.WriteString(BoldStyle.Render("Ledger"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Transactions:  %d\n", len(ledger))
	if len(ledger) > 0 {
		fmt.Fprintf(&b, "  Period:        %s — %s\n",
			ledger[0].Timestamp.Format("2006-01-02"),
			ledger[len(ledger)-1].Timestamp.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "  Total in:      %s\n", SuccessStyle.Render(ledger.TotalInflow().StringFixed(2)))
	fmt.Fprintf(&b, "  Total out:     %s\n", ErrorStyle.Render(ledger.TotalOutflow().StringFixed(2)))
	fmt.Fprintf(&b, "  Model:         %s (order %d, %d states, %d transitions)\n\n",
		stats.Status, stats.Order, stats.States, stats.Transitions)

	b.WriteString(BoldStyle.Render("Behavior"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Behavior score:   %.0f/100\n", analysis.BehaviorScore)
	fmt.Fprintf(&b, "  Predictability:   %.0f%%\n", analysis.Predictability)
	fmt.Fprintf(&b, "  Overall risk:     %s\n", LevelStyle(analysis.OverallRisk).Render(analysis.OverallRisk))
	fmt.Fprintf(&b, "  Category loyalty: %.2f\n", analysis.Habits.CategoryLoyalty)
	fmt.Fprintf(&b, "  Velocity:         %.2f txns/day\n\n", analysis.Habits.SpendingVelocity)

	b.WriteString(BoldStyle.Render("Risks"))
	b.WriteString("\n")
	for _, risk := range analysis.Risks {
		fmt.Fprintf(&b, "  %-24s %s (%.2f)\n",
			risk.Type, LevelStyle(risk.Level).Render(risk.Level), risk.Score)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s (%d flagged, %.1f%%)\n",
		BoldStyle.Render("Anomalies"), analysis.Anomalies.Total, analysis.Anomalies.Rate)
	for i, a := range analysis.Anomalies.Anomalies {
		if i >= 5 {
			fmt.Fprintf(&b, "  %s\n", SubtleStyle.Render(fmt.Sprintf("… and %d more", analysis.Anomalies.Total-5)))
			break
		}
		fmt.Fprintf(&b, "  %s  %-30s  score %.2f\n",
			a.Transaction.Timestamp.Format("2006-01-02"),
			truncate(a.Transaction.Description, 30),
			a.Score)
	}
	b.WriteString("\n")

	if len(analysis.Recommendations) > 0 {
		b.WriteString(BoldStyle.Render("Recommendations"))
		b.WriteString("\n")
		for _, rec := range analysis.Recommendations {
			fmt.Fprintf(&b, "  [%s] %s\n", LevelStyle(rec.Priority).Render(rec.Priority), BoldStyle.Render(rec.Title))
			fmt.Fprintf(&b, "      %s\n", rec.Description)
			fmt.Fprintf(&b, "      %s\n", SubtleStyle.Render("→ "+rec.Action))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderCategorySummary formats per-category expense totals.
func RenderCategorySummary(summaries []classification.CategorySummary) string {
	var b strings.Builder
	b.WriteString(BoldStyle.Render("Spending by category"))
	b.WriteString("\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "  %-15s %12s  (%d txns, %.1f%%)\n",
			s.Category, s.Total.StringFixed(2), s.Count, s.Percentage)
	}
	return b.String()
}

// RenderForecast formats the monthly category forecasts.
func RenderForecast(forecasts map[string]markov.MonthlyForecast, categories []string) string {
	var b strings.Builder
	b.WriteString(BoldStyle.Render("Monthly forecast (historical mean ± std)"))
	b.WriteString("\n")
	for _, category := range categories {
		f, ok := forecasts[category]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-15s %10.2f  [%.2f, %.2f]  n=%d\n",
			category, f.Predicted, f.Low, f.High, f.Count)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
