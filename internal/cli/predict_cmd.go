package cli

import (
	"fmt"
	"maps"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roaster/internal/cli/formatter"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/importer"
	"github.com/alexanderramin/roaster/internal/model"
	"github.com/alexanderramin/roaster/internal/roast"
)

func newPredictCmd(app *App) *cobra.Command {
	var (
		modelFile string
		appName   string
		intensity string
		day       string
		extra     map[string]string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict usage from a saved model",
		Long: "Loads a model written by 'run --save-model' and predicts for one feature row.\n" +
			"Every feature the model was trained on must be supplied.",
		Example: `  roaster predict --model-file model.json --app TikTok --intensity brutal --day Monday`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.LoadFile(modelFile)
			if err != nil {
				return err
			}

			features := map[string]string{}
			maps.Copy(features, extra)
			if appName != "" {
				features["app_name"] = appName
			}
			if intensity != "" {
				features["roast_intensity"] = intensity
			}
			if day != "" {
				df, err := dayFeatures(day)
				if err != nil {
					return err
				}
				maps.Copy(features, df)
			}

			pred, err := m.PredictSingle(features)
			if err != nil {
				return fmt.Errorf("predicting: %w (model features: %v)", err, m.Features)
			}

			rows := [][2]string{
				{"Model", string(m.Kind)},
				{"Target", m.Target},
				{"Prediction", fmt.Sprintf("%.2f", pred)},
			}
			if minutes, ok := predictionMinutes(m.Target, features, pred); ok {
				rows = append(rows,
					[2]string{"Usage", roast.FormatDuration(minutes)},
					[2]string{"Bucket", formatter.UsageStyle(domain.CategorizeUsage(minutes)).Render(string(domain.CategorizeUsage(minutes)))},
				)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Header("Prediction")+"\n"+formatter.RenderKV(rows))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&modelFile, "model-file", "m", "", "Model file written by run --save-model")
	f.StringVar(&appName, "app", "", "App name")
	f.Var(newEnumValue(&intensity, "intensity", "light", "medium", "brutal"), "intensity", "Roast intensity")
	f.StringVar(&day, "day", "", "Day of week")
	f.StringToStringVar(&extra, "feature", nil, "Additional feature as name=value (repeatable)")
	_ = cmd.MarkFlagRequired("model-file")
	return cmd
}

// predictionMinutes converts a prediction to minutes when the target
// allows it.
func predictionMinutes(target string, features map[string]string, pred float64) (float64, bool) {
	switch target {
	case importer.ColUsageMinutes:
		return pred, true
	case "engagement_score":
		i, ok := features["roast_intensity"]
		if !ok {
			return 0, false
		}
		return pred / domain.Intensity(i).Weight(), true
	}
	return 0, false
}
