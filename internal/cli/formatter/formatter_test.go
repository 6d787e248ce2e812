package formatter

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/roaster/internal/dataset"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/evaluate"
	"github.com/alexanderramin/roaster/internal/importer"
	"github.com/alexanderramin/roaster/internal/llm"
	"github.com/alexanderramin/roaster/internal/model"
	"github.com/alexanderramin/roaster/internal/roast"
	"github.com/alexanderramin/roaster/internal/service"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderTable_Aligns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "LONGER"}, [][]string{{"xyz", "1"}, {"q"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "A    LONGER", lines[0])
	assert.Equal(t, "xyz  1", lines[2])
	assert.Equal(t, "q    ", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "[█████░░░░░]  50%", stripANSI(RenderBar(0.5, 10)))
	assert.Equal(t, "[██████████] 100%", stripANSI(RenderBar(3, 10)))
	assert.Equal(t, "[░░]   0%", stripANSI(RenderBar(-1, 0)))
}

func TestRenderShare(t *testing.T) {
	assert.Equal(t, "█░░░  25.0%", stripANSI(RenderShare(0.25, 4)))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "12345678", TruncID("1234567890abcdef"))
	assert.Equal(t, "abc", TruncID("abc"))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestampFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestampFrom(now.Add(-3*time.Hour), now))
}

func TestIsTerminal_Buffer(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	StartSpinner(&buf, "working")()
	assert.Empty(t, buf.String())
}

func TestSpinner_StopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "working")
	s.Start()
	s.Stop()
	s.Stop()
}

func sampleReport() *service.RunReport {
	within := 0.8
	gap := 25.0
	return &service.RunReport{
		RunID:     "0123456789abcdef",
		Input:     "synthetic",
		Rows:      120,
		ModelKind: domain.ModelTree,
		Provider:  "simulator",
		Validation: importer.Result{Valid: true, Warnings: []domain.Warning{
			{Code: domain.WarnFewSamples, Message: "only 120 rows; at least 200 recommended"},
		}},
		Insights: dataset.Insights{
			TotalRows:   120,
			UniqueUsers: 30,
			MeanMinutes: 140,
			Apps: []dataset.AppStats{
				{App: "Instagram", Sessions: 40, MeanMinutes: 170, Share: 0.4, VsGlobal: &gap},
			},
			UsageCategoryCounts: map[domain.UsageCategory]int{domain.UsageHeavy: 60},
		},
		Metrics: &evaluate.Metrics{N: 24, MAE: 21.5, RMSE: 30.2, R2: 0.71, Within10: 0.3, Within30: 0.7, Within60: within},
		CV:      &evaluate.CVResult{Folds: 5, Mean: 0.66, Std: 0.04},
		Notes:   []string{"MAE 61.0 minutes is above the maximum of 60"},
		Importances: []model.Importance{
			{Feature: "app_name_TikTok", Weight: 0.6},
		},
		Results: []domain.RoastResult{{
			UserID: "user_007", AppName: "TikTok", ActualUsage: 240, PredictedUsage: 231,
			RoastIntensity: "brutal", RoastCategory: "productivity", DayOfWeek: "Saturday",
			GeneratedText: "Arre bhai, TikTok pe itna time?",
		}},
		Skipped:    []roast.Skipped{{Line: 9, UserID: "user_009", Errors: []string{"App name must be a non-empty string"}}},
		ReportPath: "output/roast_results_20250715_120000.json",
	}
}

func TestFormatRunReport(t *testing.T) {
	out := stripANSI(FormatRunReport(sampleReport()))

	for _, want := range []string{
		"RUN\n",
		"0123456789abcdef",
		"only 120 rows",
		"USAGE INSIGHTS",
		"Instagram",
		"+25.0",
		"Heavy 60",
		"MODEL PERFORMANCE",
		"21.5 min",
		"0.710",
		"0.660 ± 0.040 over 5 folds",
		"MAE 61.0 minutes",
		"app_name_TikTok",
		"user_007",
		"● BRUTAL",
		"Arre bhai, TikTok pe itna time?",
		"skipped line 9 (user_009)",
		"Results saved to output/roast_results_20250715_120000.json",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatMetrics_NoHoldout(t *testing.T) {
	out := stripANSI(FormatMetrics(nil, nil))
	assert.Contains(t, out, "Not enough holdout data")
	assert.NotContains(t, out, "CV R²")
}

func TestFormatValidation(t *testing.T) {
	res := importer.Result{
		Errors:   []string{"missing required column: date"},
		Warnings: []domain.Warning{{Message: "3 duplicate rows"}},
	}
	out := stripANSI(FormatValidation("data.csv", 10, res))
	assert.Contains(t, out, "INVALID")
	assert.Contains(t, out, "Errors (1)")
	assert.Contains(t, out, "✗ missing required column: date")
	assert.Contains(t, out, "Warnings (1)")

	ok := stripANSI(FormatValidation("data.csv", 10, importer.Result{Valid: true}))
	assert.Contains(t, ok, "VALID")
	assert.NotContains(t, ok, "Errors")
}

func TestFormatRunList(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	mean := 0.7
	out := stripANSI(formatRunList([]*domain.Run{
		{ID: "abcdef0123456789", CreatedAt: now.Add(-2 * time.Hour), Input: "synthetic", Rows: 200, ModelKind: domain.ModelForest, MAE: 12.34, R2: 0.8, CVMean: &mean},
	}, now))
	assert.Contains(t, out, "abcdef01")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "forest")
	assert.Contains(t, out, "12.3")
	assert.Contains(t, out, "0.700")

	assert.Contains(t, FormatRunList(nil), "No runs recorded yet")
}

func TestFormatRunDetail(t *testing.T) {
	d := &service.RunDetail{
		Run:     &domain.Run{ID: "run-1", CreatedAt: time.Now(), ModelKind: domain.ModelTree, MAE: 10},
		Results: sampleReport().Results,
	}
	out := stripANSI(FormatRunDetail(d))
	assert.Contains(t, out, "run-1")
	assert.NotContains(t, out, "RUN-1")
	assert.Contains(t, out, "user_007")

	empty := stripANSI(FormatRunDetail(&service.RunDetail{Run: d.Run}))
	assert.Contains(t, empty, "No roasts stored")
}

func TestFormatPreviewAndOptions(t *testing.T) {
	p := roast.Preview{
		App: "Instagram", Duration: "3 hours", Intensity: "medium", Category: "health",
		IntensityDescription: "balanced", AppContext: "endless scrolling", FocusArea: "health",
		SuggestedPhrases: []string{"Arre yaar"},
	}
	out := stripANSI(FormatPreview(p))
	assert.Contains(t, out, "ROAST PREVIEW")
	assert.Contains(t, out, "3 hours")
	assert.Contains(t, out, "Arre yaar")

	opts := stripANSI(FormatOptions(roast.Options{Apps: []string{"Instagram", "TikTok"}, Intensities: []string{"light"}}))
	assert.Contains(t, opts, "Instagram, TikTok")

	status := stripANSI(FormatGeneratorStatus(llm.Status{Provider: "simulator", Model: "gemini-pro", Timeout: 30 * time.Second, Configured: true}))
	assert.Contains(t, status, "simulator")
	assert.Contains(t, status, "30s")
}

func TestFormatDirective(t *testing.T) {
	out := stripANSI(FormatDirective("compose this", ""))
	assert.Contains(t, out, "compose this")
	assert.NotContains(t, out, "ROAST\n")

	withRoast := stripANSI(FormatDirective("compose this", "you scroll too much"))
	assert.Contains(t, withRoast, "you scroll too much")

	errs := stripANSI(FormatValidationErrors([]string{"bad"}))
	assert.Contains(t, errs, "✗ bad")
}
