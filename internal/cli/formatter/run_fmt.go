package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/roaster/internal/dataset"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/evaluate"
	"github.com/alexanderramin/roaster/internal/model"
	"github.com/alexanderramin/roaster/internal/service"
)

const (
	barWidth  = 20
	roastWrap = 72
)

// FormatRunReport renders a full pipeline run.
func FormatRunReport(rep *service.RunReport) string {
	var b strings.Builder

	b.WriteString(Header("Run"))
	b.WriteString("\n")
	b.WriteString(RenderKV([][2]string{
		{"ID", rep.RunID},
		{"Input", rep.Input},
		{"Rows", fmt.Sprintf("%d", rep.Rows)},
		{"Model", string(rep.ModelKind)},
		{"Generator", rep.Provider},
	}))

	if len(rep.Validation.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(formatWarnings(rep.Validation.Warnings))
	}

	b.WriteString("\n")
	b.WriteString(FormatInsights(rep.Insights))

	b.WriteString("\n")
	b.WriteString(FormatMetrics(rep.Metrics, rep.CV))

	if len(rep.Notes) > 0 {
		b.WriteString("\n")
		for _, n := range rep.Notes {
			b.WriteString("  " + StyleYellow.Render("! ") + n + "\n")
		}
	}

	if len(rep.Importances) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatImportances(rep.Importances, 10))
	}

	b.WriteString("\n")
	b.WriteString(Header("Roasts"))
	b.WriteString("\n")
	if len(rep.Results) == 0 {
		b.WriteString(Dim("  No roasts generated.") + "\n")
	}
	for i, r := range rep.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatRoast(r))
	}
	for _, s := range rep.Skipped {
		b.WriteString(StyleRed.Render(fmt.Sprintf("  skipped line %d (%s): %s", s.Line, s.UserID, strings.Join(s.Errors, "; "))))
		b.WriteString("\n")
	}

	if rep.ReportPath != "" {
		b.WriteString("\n" + Dim("Results saved to "+rep.ReportPath) + "\n")
	}
	if rep.ModelPath != "" {
		b.WriteString(Dim("Model saved to "+rep.ModelPath) + "\n")
	}
	return b.String()
}

// FormatInsights renders the dataset summary.
func FormatInsights(in dataset.Insights) string {
	var b strings.Builder
	b.WriteString(Header("Usage insights"))
	b.WriteString("\n")

	period := "--"
	if !in.From.IsZero() {
		period = in.From.Format("2006-01-02") + " to " + in.To.Format("2006-01-02")
	}
	b.WriteString(RenderKV([][2]string{
		{"Records", fmt.Sprintf("%d", in.TotalRows)},
		{"Users", fmt.Sprintf("%d", in.UniqueUsers)},
		{"Period", period},
		{"Mean usage", Minutes(in.MeanMinutes)},
		{"Weekday / weekend", Minutes(in.WeekdayMeanMinutes) + " / " + Minutes(in.WeekendMeanMinutes)},
		{"Most active day", domain.CoalesceStr(in.MostActiveDay, "--")},
	}))

	if len(in.Apps) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(in.Apps))
		for _, a := range in.Apps {
			vs := Dim("--")
			if a.VsGlobal != nil {
				vs = signed(*a.VsGlobal)
			}
			rows = append(rows, []string{
				Bold(a.App),
				fmt.Sprintf("%d", a.Sessions),
				Minutes(a.MeanMinutes),
				vs,
				RenderShare(a.Share, 10),
			})
		}
		b.WriteString(RenderTable([]string{"APP", "SESSIONS", "MEAN", "VS GLOBAL", "SHARE"}, rows))
	}

	if len(in.UsageCategoryCounts) > 0 {
		parts := make([]string, 0, len(domain.UsageCategories))
		for _, c := range domain.UsageCategories {
			parts = append(parts, UsageStyle(c).Render(fmt.Sprintf("%s %d", c, in.UsageCategoryCounts[c])))
		}
		b.WriteString("\n  " + strings.Join(parts, Dim(" · ")) + "\n")
	}
	return b.String()
}

func signed(v float64) string {
	s := fmt.Sprintf("%+.1f", v)
	if v > 0 {
		return StyleRed.Render(s)
	}
	return StyleGreen.Render(s)
}

// FormatMetrics renders holdout metrics and the cross-validation spread.
func FormatMetrics(m *evaluate.Metrics, cv *evaluate.CVResult) string {
	var b strings.Builder
	b.WriteString(Header("Model performance"))
	b.WriteString("\n")
	if m == nil {
		b.WriteString(Dim("  Not enough holdout data to score the model.") + "\n")
	} else {
		b.WriteString(RenderKV([][2]string{
			{"Test rows", fmt.Sprintf("%d", m.N)},
			{"MAE", Minutes(m.MAE)},
			{"RMSE", Minutes(m.RMSE)},
			{"R²", fmt.Sprintf("%.3f", m.R2)},
			{"Within 10 min", RenderBar(m.Within10, barWidth)},
			{"Within 30 min", RenderBar(m.Within30, barWidth)},
			{"Within 60 min", RenderBar(m.Within60, barWidth)},
		}))
	}
	if cv != nil {
		b.WriteString(RenderKV([][2]string{
			{"CV R²", fmt.Sprintf("%.3f ± %.3f over %d folds", cv.Mean, cv.Std, cv.Folds)},
		}))
	}
	return b.String()
}

// FormatImportances renders the top n feature weights.
func FormatImportances(imps []model.Importance, n int) string {
	var b strings.Builder
	b.WriteString(Header("Feature importance"))
	b.WriteString("\n")
	rows := make([][]string, 0, min(n, len(imps)))
	for i, imp := range imps {
		if i == n {
			break
		}
		rows = append(rows, []string{imp.Feature, RenderShare(imp.Weight, barWidth)})
	}
	b.WriteString(RenderTable([]string{"FEATURE", "WEIGHT"}, rows))
	return b.String()
}

// FormatRoast renders one roast result.
func FormatRoast(r domain.RoastResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s %s\n",
		Bold(r.UserID),
		StyleBlue.Render(r.AppName),
		IntensityBadge(r.RoastIntensity))
	day := domain.CoalesceStr(r.DayOfWeek, "--")
	b.WriteString(Dim(fmt.Sprintf("  %s · %s · actual %.0f min · predicted %.0f min", day, r.RoastCategory, r.ActualUsage, r.PredictedUsage)))
	b.WriteString("\n")
	for _, line := range strings.Split(Wrap(r.GeneratedText, roastWrap), "\n") {
		b.WriteString("    " + StyleFg.Render(strings.TrimRight(line, " ")) + "\n")
	}
	return b.String()
}
