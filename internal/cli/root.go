package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/roaster/internal/logger"
)

// NewRootCmd creates the top-level "roaster" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:   "roaster",
		Short: "Predict screen time and roast it",
		Long: "roaster validates a screen-time log, learns per-user usage, predicts it\n" +
			"and turns the prediction into a personalized roast.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			app.Config = cfg

			opt := logger.FromEnv()
			if cmd.Flags().Changed("log-level") {
				opt.Level = logLevel
			}
			opt.Writer = cmd.ErrOrStderr()
			l := logger.New(opt)
			app.Log = &l
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $ROASTER_CONFIG)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(app),
		newValidateCmd(app),
		newComposeCmd(app),
		newPredictCmd(app),
		newOptionsCmd(app),
		newHistoryCmd(app),
		newSampleCmd(app),
		newScheduleCmd(app),
	)
	return root
}
