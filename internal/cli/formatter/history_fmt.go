package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/service"
)

// FormatRunList renders recorded runs, newest first.
func FormatRunList(runs []*domain.Run) string {
	return formatRunList(runs, time.Now())
}

func formatRunList(runs []*domain.Run, now time.Time) string {
	if len(runs) == 0 {
		return Dim("No runs recorded yet. Try: roaster run --demo 200") + "\n"
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			StylePurple.Render(TruncID(r.ID)),
			HumanTimestampFrom(r.CreatedAt, now),
			r.Input,
			fmt.Sprintf("%d", r.Rows),
			string(r.ModelKind),
			fmt.Sprintf("%.1f", r.MAE),
			fmt.Sprintf("%.3f", r.R2),
			cvCell(r),
		})
	}
	return RenderTable([]string{"ID", "WHEN", "INPUT", "ROWS", "MODEL", "MAE", "R²", "CV R²"}, rows)
}

func cvCell(r *domain.Run) string {
	if r.CVMean == nil {
		return Dim("--")
	}
	if r.CVStd == nil {
		return fmt.Sprintf("%.3f", *r.CVMean)
	}
	return fmt.Sprintf("%.3f ± %.3f", *r.CVMean, *r.CVStd)
}

// FormatRunDetail renders one stored run with its roasts.
func FormatRunDetail(d *service.RunDetail) string {
	var b strings.Builder
	r := d.Run
	b.WriteString(Header("Run"))
	b.WriteString("\n")
	b.WriteString(RenderKV([][2]string{
		{"ID", r.ID},
		{"Recorded", r.CreatedAt.Local().Format("2006-01-02 15:04:05")},
		{"Input", r.Input},
		{"Rows", fmt.Sprintf("%d", r.Rows)},
		{"Model", string(r.ModelKind)},
		{"Generator", domain.CoalesceStr(r.Provider, "--")},
		{"MAE", Minutes(r.MAE)},
		{"RMSE", Minutes(r.RMSE)},
		{"R²", fmt.Sprintf("%.3f", r.R2)},
		{"CV R²", cvCell(r)},
	}))
	b.WriteString("\n")
	b.WriteString(Header("Roasts"))
	b.WriteString("\n")
	if len(d.Results) == 0 {
		b.WriteString(Dim("  No roasts stored for this run.") + "\n")
	}
	for i, res := range d.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatRoast(res))
	}
	return b.String()
}
