package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/roaster/internal/llm"
	"github.com/alexanderramin/roaster/internal/roast"
)

// FormatPreview renders the context a directive would carry.
func FormatPreview(p roast.Preview) string {
	var b strings.Builder
	b.WriteString(RenderKV([][2]string{
		{"App", Bold(p.App)},
		{"Usage", p.Duration},
		{"Intensity", IntensityBadge(p.Intensity)},
		{"Category", p.Category},
		{"Tone", p.IntensityDescription},
		{"App context", p.AppContext},
		{"Focus", p.FocusArea},
	}))
	if len(p.SuggestedPhrases) > 0 {
		b.WriteString("  " + Dim("Phrases") + "  " + strings.Join(p.SuggestedPhrases, Dim(" · ")) + "\n")
	}
	if len(p.CulturalReferences) > 0 {
		b.WriteString("  " + Dim("References") + "  " + strings.Join(p.CulturalReferences, Dim(" · ")) + "\n")
	}
	return RenderBox("Roast preview", strings.TrimRight(b.String(), "\n"))
}

// FormatDirective renders a composed directive and, when present, the
// generated roast.
func FormatDirective(directive, generated string) string {
	var b strings.Builder
	b.WriteString(Header("Directive"))
	b.WriteString("\n")
	b.WriteString(directive)
	b.WriteString("\n")
	if generated != "" {
		b.WriteString("\n")
		b.WriteString(RenderBox("Roast", Wrap(generated, roastWrap)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatValidationErrors renders composer input errors.
func FormatValidationErrors(errs []string) string {
	var b strings.Builder
	b.WriteString(StyleRed.Render("Invalid roast input") + "\n")
	for _, e := range errs {
		b.WriteString("  " + Check(false) + " " + e + "\n")
	}
	return b.String()
}

// FormatOptions renders the accepted composer inputs.
func FormatOptions(o roast.Options) string {
	var b strings.Builder
	b.WriteString(Header("Roast options"))
	b.WriteString("\n")
	b.WriteString(RenderKV([][2]string{
		{"Apps", strings.Join(o.Apps, ", ")},
		{"Intensities", strings.Join(o.Intensities, ", ")},
		{"Categories", strings.Join(o.Categories, ", ")},
		{"Phrases", strings.Join(o.HinglishPhrases, ", ")},
		{"References", strings.Join(o.CulturalReferences, ", ")},
	}))
	return b.String()
}

// FormatGeneratorStatus renders the configured generation backend.
func FormatGeneratorStatus(s llm.Status) string {
	var b strings.Builder
	b.WriteString(Header("Generator"))
	b.WriteString("\n")
	b.WriteString(RenderKV([][2]string{
		{"Provider", s.Provider},
		{"Model", s.Model},
		{"Temperature", fmt.Sprintf("%.2f", s.Temperature)},
		{"Max tokens", fmt.Sprintf("%d", s.MaxTokens)},
		{"Timeout", s.Timeout.Round(time.Millisecond).String()},
		{"Retries", fmt.Sprintf("%d", s.MaxRetries)},
		{"API key", Check(s.HasAPIKey)},
		{"Configured", Check(s.Configured)},
	}))
	return b.String()
}
