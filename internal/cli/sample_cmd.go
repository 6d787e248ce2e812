package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roaster/internal/importer"
	"github.com/alexanderramin/roaster/internal/synth"
)

func newSampleCmd(app *App) *cobra.Command {
	var (
		rows int
		out  string
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a synthetic screen-time CSV",
		Example: `  roaster sample --rows 1000 --out sample.csv
  roaster sample --rows 20 | head`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = app.Config.Model.Seed
			}
			t, err := synth.Generate(synth.OptionsFromConfig(app.Config, rows, seed))
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return importer.WriteCSV(cmd.OutOrStdout(), t)
			}
			if err := importer.SaveCSV(out, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", t.Len(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 200, "Number of rows")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default model.seed)")
	return cmd
}
