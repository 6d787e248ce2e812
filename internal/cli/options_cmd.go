package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roaster/internal/cli/formatter"
	"github.com/alexanderramin/roaster/internal/llm"
	"github.com/alexanderramin/roaster/internal/roast"
)

func newOptionsCmd(app *App) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List accepted apps, categories and intensities",
		RunE: func(cmd *cobra.Command, args []string) error {
			composer := roast.NewComposer(app.Config.Roast, app.Log)
			out := formatter.FormatOptions(composer.Options())
			if status {
				s := llm.StatusOf(app.Config.Generation)
				out += "\n" + formatter.FormatGeneratorStatus(s)
				if s.Provider == llm.ProviderOllama {
					ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
					up := llm.NewOllamaClient(app.Config.Generation, nil).Available(ctx)
					cancel()
					out += formatter.RenderKV([][2]string{{"Reachable", formatter.Check(up)}})
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "Also show the generation backend status")
	return cmd
}
