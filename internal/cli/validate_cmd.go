package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roaster/internal/cli/formatter"
	"github.com/alexanderramin/roaster/internal/importer"
)

func newValidateCmd(app *App) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a screen-time CSV against the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, res, err := importer.ValidateFile(input, importer.SchemaFromConfig(app.Config))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatValidation(input, t.Len(), res))
			if !res.Valid {
				return &ExitError{Code: ExitInvalid, Err: fmt.Errorf("%s: %d validation errors", input, len(res.Errors))}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file to validate")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
