package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roaster/internal/cli/formatter"
	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/db"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/service"
)

// runOptions are the pipeline flags shared by run and schedule.
type runOptions struct {
	input     string
	demoRows  int
	modelKind string
	provider  string
	apiKey    string
	outputDir string
	save      bool
	saveModel string
	noStore   bool
}

func (o *runOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.input, "input", "i", "", "Screen-time CSV to process (default: generated sample data)")
	f.IntVar(&o.demoRows, "demo", service.DefaultDemoRows, "Rows of sample data when no --input is given")
	f.Var(newEnumValue(&o.modelKind, "kind", string(domain.ModelTree), string(domain.ModelForest)), "model-kind", "Regressor: tree or forest")
	f.Var(newEnumValue(&o.provider, "provider", "auto", "simulator", "gemini", "ollama"), "provider", "Generation backend")
	f.StringVar(&o.apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	f.StringVarP(&o.outputDir, "output-dir", "o", "", "Directory for JSON results")
	f.BoolVar(&o.save, "save", false, "Write the results JSON to the output directory")
	f.StringVar(&o.saveModel, "save-model", "", "Write the trained model to this file")
	f.BoolVar(&o.noStore, "no-store", false, "Do not record the run in the history database")
}

// apply overlays the flags on cfg and revalidates it.
func (o *runOptions) apply(cfg config.Config) (config.Config, error) {
	if o.modelKind != "" {
		cfg.Model.Kind = o.modelKind
	}
	if o.provider != "" {
		cfg.Generation.Provider = o.provider
	}
	if o.apiKey != "" {
		cfg.Generation.APIKey = o.apiKey
	}
	if o.outputDir != "" {
		cfg.Output.Dir = o.outputDir
	}
	if o.save {
		cfg.Output.SaveResults = true
	}
	if o.noStore {
		cfg.Store.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (o *runOptions) request() service.RunRequest {
	return service.RunRequest{Input: o.input, DemoRows: o.demoRows, ModelPath: o.saveModel}
}

func newRunCmd(app *App) *cobra.Command {
	var (
		opts   runOptions
		browse bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Validate, train, predict and roast",
		Example: `  roaster run --demo 500
  roaster run -i screen_time.csv --model-kind forest --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := runPipeline(cmd.Context(), app, &opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := formatter.FormatRunReport(rep)
			if browse && app.interactive() {
				return browseText(app, "Run report", out)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&browse, "browse", false, "Page through the report in a scrollable view")
	return cmd
}

// runPipeline executes one pipeline run with the flags applied. Progress
// goes to status when it is a terminal.
func runPipeline(ctx context.Context, app *App, opts *runOptions, status io.Writer) (*service.RunReport, error) {
	cfg, err := opts.apply(app.Config)
	if err != nil {
		return nil, err
	}

	var uow db.UnitOfWork
	if cfg.Store.Enabled {
		conn, err := app.openStore()
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		uow = db.NewSQLiteUnitOfWork(conn)
	}

	generator := app.NewGenerator(cfg.Generation, app.Log)
	pipeline := service.NewPipelineService(cfg, generator, uow, app.Log, service.NewLogUseCaseObserver(app.Log))

	stop := formatter.StartSpinner(status, "Roasting with "+generator.Name()+"...")
	rep, err := pipeline.Run(ctx, opts.request())
	stop()

	var invalid *service.ValidationFailedError
	if errors.As(err, &invalid) {
		fmt.Fprint(status, formatter.FormatValidation(invalid.Input, invalid.Rows, invalid.Result))
		return nil, &ExitError{Code: ExitInvalid, Err: err}
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}
