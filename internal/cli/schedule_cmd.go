package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roaster/internal/cli/formatter"
	"github.com/alexanderramin/roaster/internal/logger"
	"github.com/alexanderramin/roaster/internal/scheduler"
)

func newScheduleCmd(app *App) *cobra.Command {
	var (
		opts     runOptions
		at       string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline every day at a fixed time",
		Long: "Runs in the foreground and triggers one pipeline run per day at --at.\n" +
			"A run still in progress when the next one is due is skipped.",
		Example: `  roaster schedule --at 21:30 --timezone Asia/Kolkata -i screen_time.csv --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.apply(app.Config); err != nil {
				return err
			}
			log := logger.Component(app.Log, "schedule")

			s, err := scheduler.New(timezone, log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			err = s.Schedule(at, func(ctx context.Context) {
				rep, err := runPipeline(ctx, app, &opts, cmd.ErrOrStderr())
				if err != nil {
					log.Error().Err(err).Msg("scheduled run failed")
					return
				}
				fmt.Fprint(out, formatter.FormatRunReport(rep))
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s.Start()
			fmt.Fprintf(cmd.ErrOrStderr(), "Next run %s (%s). Ctrl+C to stop.\n",
				s.Next().Format("2006-01-02 15:04 MST"), s.Location())
			<-ctx.Done()
			s.Stop()
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&at, "at", "09:00", "Daily run time as HH:MM")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone (default local)")
	return cmd
}
