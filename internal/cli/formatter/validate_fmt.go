package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/importer"
)

// FormatValidation renders a validation result for the file at source.
func FormatValidation(source string, rows int, res importer.Result) string {
	var b strings.Builder
	b.WriteString(Header("Validation"))
	b.WriteString("\n")

	status := StyleGreen.Render("VALID")
	if !res.Valid {
		status = StyleRed.Render("INVALID")
	}
	b.WriteString(RenderKV([][2]string{
		{"File", source},
		{"Rows", fmt.Sprintf("%d", rows)},
		{"Status", status},
	}))

	if len(res.Errors) > 0 {
		b.WriteString("\n" + StyleRed.Render(fmt.Sprintf("Errors (%d)", len(res.Errors))) + "\n")
		for _, e := range res.Errors {
			b.WriteString("  " + Check(false) + " " + e + "\n")
		}
	}
	if len(res.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(formatWarnings(res.Warnings))
	}
	return b.String()
}

func formatWarnings(ws []domain.Warning) string {
	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("Warnings (%d)", len(ws))) + "\n")
	for _, w := range ws {
		b.WriteString("  " + StyleYellow.Render("!") + " " + w.Message + "\n")
	}
	return b.String()
}
