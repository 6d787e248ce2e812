package roast

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/logger"
)

// MaxPredictedMinutes is the largest prediction accepted, one day.
const MaxPredictedMinutes = 1440

const (
	phraseLimit        = 10
	referenceLimit     = 8
	previewPhrases     = 5
	previewReferences  = 3
	defaultInstruction = "Generate a humorous roast"
	defaultFocus       = "their screen time habits"
)

// Context is optional per-row detail appended to a directive.
type Context struct {
	DayOfWeek     string
	UsageCategory string
	IsWeekend     *bool
}

// Request is the input to Compose.
type Request struct {
	App       string
	Minutes   float64
	Category  string
	Intensity string
	Context   *Context
}

// Composer builds directives from a read-only catalog.
type Composer struct {
	catalog config.RoastCatalog
	log     *logger.Logger
}

// NewComposer returns a composer over catalog. A nil log discards output.
func NewComposer(catalog config.RoastCatalog, log *logger.Logger) *Composer {
	if log == nil {
		log = logger.Nop()
	}
	return &Composer{catalog: catalog, log: log}
}

// Catalog returns the tables the composer reads.
func (c *Composer) Catalog() config.RoastCatalog { return c.catalog }

func (c *Composer) instruction(intensity string) string {
	if s, ok := c.catalog.IntensityInstructions[intensity]; ok {
		return s
	}
	return defaultInstruction
}

func (c *Composer) appContext(app string) string {
	if s, ok := c.catalog.AppContexts[app]; ok {
		return s
	}
	return fmt.Sprintf("their %s usage habits", app)
}

func (c *Composer) focus(category string) string {
	if s, ok := c.catalog.CategoryFocus[category]; ok {
		return s
	}
	return defaultFocus
}

// Compose renders the directive for r. Unknown apps, intensities and
// categories fall back to generic descriptions.
func (c *Composer) Compose(r Request) string {
	dur := FormatDuration(r.Minutes)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s intensity, witty, and funny roast in Hinglish (Hindi-English mix) for a user who is predicted to spend %s on %s.\n", r.Intensity, dur, r.App)

	b.WriteString("\nROAST REQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Intensity Level: %s - %s\n", strings.ToUpper(r.Intensity), c.instruction(r.Intensity))
	fmt.Fprintf(&b, "- Primary Focus: %s\n", c.focus(r.Category))
	fmt.Fprintf(&b, "- App Context: Target %s\n", c.appContext(r.App))
	b.WriteString("- Language Style: Hinglish (mix Hindi and English naturally, like how young Indians speak)\n")
	b.WriteString("- Tone: Humorous, relatable, and entertaining\n")
	b.WriteString("- Length: 2-3 sentences maximum\n")

	b.WriteString("\nCONTEXT DETAILS:\n")
	fmt.Fprintf(&b, "- Predicted Usage Time: %.0f minutes (%s)\n", r.Minutes, dur)
	fmt.Fprintf(&b, "- App: %s\n", r.App)
	fmt.Fprintf(&b, "- Roast Category: %s\n", r.Category)
	fmt.Fprintf(&b, "- Focus on the irony and humor of spending this much time on %s", r.App)
	if extra := formatContext(r.Context); extra != "" {
		fmt.Fprintf(&b, "\n- Additional Context: %s", extra)
	}

	b.WriteString("\n\nSTYLE GUIDELINES:\n")
	b.WriteString("- Use popular Hinglish phrases and expressions\n")
	b.WriteString("- Include relatable references to Indian culture/lifestyle\n")
	b.WriteString("- Make it sound like a friend roasting another friend\n")
	b.WriteString("- Avoid offensive content, keep it fun and entertaining\n")
	b.WriteString("- Use emojis sparingly but effectively\n")

	b.WriteString("\nHINGLISH PHRASES TO CONSIDER:\n")
	b.WriteString(strings.Join(head(c.catalog.HinglishPhrases, phraseLimit), ", "))
	b.WriteString("\n\nCULTURAL REFERENCES TO USE:\n")
	b.WriteString(strings.Join(head(c.catalog.CulturalReferences, referenceLimit), ", "))

	fmt.Fprintf(&b, "\n\nGenerate a roast that will make the user laugh while also making them think about their %s usage habits!", r.App)
	return b.String()
}

func formatContext(ctx *Context) string {
	if ctx == nil {
		return ""
	}
	var parts []string
	if ctx.DayOfWeek != "" {
		parts = append(parts, "Day: "+ctx.DayOfWeek)
	}
	if ctx.UsageCategory != "" {
		parts = append(parts, "Usage Pattern: "+ctx.UsageCategory)
	}
	if ctx.IsWeekend != nil {
		dayType := "weekday"
		if *ctx.IsWeekend {
			dayType = "weekend"
		}
		parts = append(parts, "Day Type: "+dayType)
	}
	return strings.Join(parts, ", ")
}

// Validate checks composer inputs taken from outside the pipeline. It
// returns every problem found.
func (c *Composer) Validate(app string, minutes float64, category, intensity string) (bool, []string) {
	var errs []string
	if strings.TrimSpace(app) == "" {
		errs = append(errs, "App name must be a non-empty string")
	}
	switch {
	case math.IsNaN(minutes) || minutes < 0:
		errs = append(errs, "Predicted usage must be a non-negative number")
	case minutes > MaxPredictedMinutes:
		errs = append(errs, fmt.Sprintf("Predicted usage cannot exceed %d minutes (24 hours)", MaxPredictedMinutes))
	}
	if _, ok := c.catalog.IntensityInstructions[intensity]; !ok {
		errs = append(errs, fmt.Sprintf("Roast intensity must be one of: %s", strings.Join(c.catalog.Intensities(), ", ")))
	}
	if _, ok := c.catalog.CategoryFocus[category]; !ok {
		errs = append(errs, fmt.Sprintf("Roast category must be one of: %s", strings.Join(c.catalog.Categories(), ", ")))
	}
	return len(errs) == 0, errs
}

// Preview is the set of catalog entries a directive would draw on.
type Preview struct {
	App                  string   `json:"app_name"`
	Duration             string   `json:"usage_time"`
	Minutes              float64  `json:"usage_minutes"`
	Intensity            string   `json:"intensity"`
	Category             string   `json:"category"`
	IntensityDescription string   `json:"intensity_description"`
	AppContext           string   `json:"app_context"`
	FocusArea            string   `json:"focus_area"`
	SuggestedPhrases     []string `json:"suggested_phrases"`
	CulturalReferences   []string `json:"cultural_refs"`
}

// Preview returns the pieces of a directive without rendering it.
func (c *Composer) Preview(app string, minutes float64, category, intensity string) Preview {
	appCtx, ok := c.catalog.AppContexts[app]
	if !ok {
		appCtx = app + " usage"
	}
	focus, ok := c.catalog.CategoryFocus[category]
	if !ok {
		focus = "screen time habits"
	}
	return Preview{
		App:                  app,
		Duration:             FormatDuration(minutes),
		Minutes:              minutes,
		Intensity:            intensity,
		Category:             category,
		IntensityDescription: c.catalog.IntensityInstructions[intensity],
		AppContext:           appCtx,
		FocusArea:            focus,
		SuggestedPhrases:     head(c.catalog.HinglishPhrases, previewPhrases),
		CulturalReferences:   head(c.catalog.CulturalReferences, previewReferences),
	}
}

// Options lists what the catalog supports, keys sorted.
type Options struct {
	Apps               []string `json:"apps"`
	Intensities        []string `json:"intensities"`
	Categories         []string `json:"categories"`
	HinglishPhrases    []string `json:"hinglish_phrases"`
	CulturalReferences []string `json:"cultural_references"`
}

// Options returns the catalog's keys and phrase lists.
func (c *Composer) Options() Options {
	return Options{
		Apps:               c.catalog.Apps(),
		Intensities:        c.catalog.Intensities(),
		Categories:         c.catalog.Categories(),
		HinglishPhrases:    append([]string(nil), c.catalog.HinglishPhrases...),
		CulturalReferences: append([]string(nil), c.catalog.CulturalReferences...),
	}
}

func head(s []string, n int) []string {
	return append([]string(nil), s[:min(n, len(s))]...)
}
