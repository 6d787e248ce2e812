package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roaster/internal/cli/formatter"
	"github.com/alexanderramin/roaster/internal/repository"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := app.openStore()
			if err != nil {
				return err
			}
			defer conn.Close()

			runs, err := app.history(conn).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunList(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", repository.DefaultListLimit, "Maximum runs to list")

	cmd.AddCommand(newHistoryShowCmd(app), newHistoryDeleteCmd(app))
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run and its roasts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := app.openStore()
			if err != nil {
				return err
			}
			defer conn.Close()

			detail, err := app.history(conn).Get(cmd.Context(), args[0])
			if err != nil {
				return runLookupError(args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunDetail(detail))
			return nil
		},
	}
}

func newHistoryDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <run-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a recorded run",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := app.openStore()
			if err != nil {
				return err
			}
			defer conn.Close()

			err = app.history(conn).Delete(cmd.Context(), args[0])
			if err != nil {
				return runLookupError(args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}

func runLookupError(ref string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("run %s not found", ref)
	case errors.Is(err, repository.ErrAmbiguous):
		return fmt.Errorf("run id %s matches more than one run; use a longer prefix", ref)
	}
	return err
}
