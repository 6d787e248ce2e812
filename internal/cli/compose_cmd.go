package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/roaster/internal/cli/formatter"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/importer"
	"github.com/alexanderramin/roaster/internal/llm"
	"github.com/alexanderramin/roaster/internal/logger"
	"github.com/alexanderramin/roaster/internal/roast"
)

type composeInput struct {
	app       string
	minutes   float64
	category  string
	intensity string
	day       string
}

func newComposeCmd(app *App) *cobra.Command {
	var (
		in          composeInput
		generate    bool
		preview     bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a roast directive from explicit inputs",
		Example: `  roaster compose --app TikTok --minutes 240 --category productivity --intensity brutal
  roaster compose --app YouTube --minutes 95 --day sat --generate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Component(app.Log, "compose")
			composer := roast.NewComposer(app.Config.Roast, log)

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				if err := composeForm(composer.Options(), &in).WithInput(app.In).Run(); err != nil {
					return err
				}
			}

			if ok, errs := composer.Validate(in.app, in.minutes, in.category, in.intensity); !ok {
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatValidationErrors(errs))
				return &ExitError{Code: ExitInvalid, Err: fmt.Errorf("invalid roast input: %s", errs[0])}
			}

			if preview {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPreview(composer.Preview(in.app, in.minutes, in.category, in.intensity)))
				return nil
			}

			req := roast.Request{App: in.app, Minutes: in.minutes, Category: in.category, Intensity: in.intensity}
			if in.day != "" {
				d, name, err := parseWeekday(in.day)
				if err != nil {
					return err
				}
				weekend := domain.IsWeekend(d)
				req.Context = &roast.Context{
					DayOfWeek:     name,
					UsageCategory: string(domain.CategorizeUsage(in.minutes)),
					IsWeekend:     &weekend,
				}
			}
			directive := composer.Compose(req)

			var generated string
			if generate {
				g := app.NewGenerator(app.Config.Generation, app.Log)
				stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Asking "+g.Name()+"...")
				text, err := g.Generate(cmd.Context(), directive)
				stop()
				if err != nil {
					log.Error().Err(err).Str("error_code", llm.ErrorCode(err)).Msg("roast generation failed")
					text = llm.ApologyText
				}
				generated = text
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDirective(directive, generated))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.app, "app", "", "App name, e.g. Instagram")
	f.Float64Var(&in.minutes, "minutes", 0, "Predicted usage in minutes")
	f.StringVar(&in.category, "category", "", "Roast category")
	f.Var(newEnumValue(&in.intensity, "intensity", "light", "medium", "brutal"), "intensity", "Roast intensity: light, medium or brutal")
	f.StringVar(&in.day, "day", "", "Day of week to add as context")
	f.BoolVar(&generate, "generate", false, "Send the directive to the generation backend")
	f.BoolVar(&preview, "preview", false, "Show the catalog entries the directive would use")
	f.BoolVarP(&interactive, "interactive", "I", false, "Fill the inputs in a form")
	return cmd
}

// composeForm asks for every compose input, prefilled from in.
func composeForm(opts roast.Options, in *composeInput) *huh.Form {
	minutes := ""
	if in.minutes > 0 {
		minutes = strconv.FormatFloat(in.minutes, 'f', -1, 64)
	}
	if in.intensity == "" {
		in.intensity = string(domain.IntensityMedium)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("App").
				Options(huh.NewOptions(opts.Apps...)...).
				Value(&in.app),
			huh.NewInput().
				Title("Predicted minutes").
				Placeholder("180").
				Value(&minutes).
				Validate(func(s string) error {
					v, ok := importer.ParseNumber(strings.TrimSpace(s))
					if !ok {
						return fmt.Errorf("enter a number")
					}
					in.minutes = v
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions(opts.Categories...)...).
				Value(&in.category),
			huh.NewSelect[string]().
				Title("Intensity").
				Options(huh.NewOptions(opts.Intensities...)...).
				Value(&in.intensity),
		),
	).WithTheme(roasterHuhTheme())
}
