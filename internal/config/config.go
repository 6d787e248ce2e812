// Package config loads roaster settings from defaults, an optional YAML
// file and ROASTER_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the full runtime configuration.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Model      ModelConfig      `yaml:"model"`
	Thresholds ThresholdConfig  `yaml:"thresholds"`
	Roast      RoastCatalog     `yaml:"roast"`
	Generation GenerationConfig `yaml:"generation"`
	Output     OutputConfig     `yaml:"output"`
	Store      StoreConfig      `yaml:"store"`
	Workers    int              `yaml:"workers" validate:"gte=1"`
}

// DataConfig describes the expected input table.
type DataConfig struct {
	RequiredColumns  []string `yaml:"required_columns" validate:"min=1,dive,required"`
	OptionalColumns  []string `yaml:"optional_columns" validate:"dive,required"`
	ValidIntensities []string `yaml:"valid_intensities" validate:"min=1,dive,required"`
	ValidApps        []string `yaml:"valid_apps" validate:"dive,required"`
	UsageMin         float64  `yaml:"usage_min" validate:"gte=0"`
	UsageMax         float64  `yaml:"usage_max" validate:"gtfield=UsageMin"`
	DateLayout       string   `yaml:"date_layout" validate:"required"`
}

// ModelConfig controls training.
type ModelConfig struct {
	Kind            string   `yaml:"kind" validate:"oneof=tree forest"`
	TestSize        float64  `yaml:"test_size" validate:"gt=0,lt=1"`
	Seed            uint64   `yaml:"seed"`
	MaxDepth        int      `yaml:"max_depth" validate:"gt=0"`
	MinSamplesSplit int      `yaml:"min_samples_split" validate:"gte=2"`
	MinSamplesLeaf  int      `yaml:"min_samples_leaf" validate:"gte=1"`
	Trees           int      `yaml:"trees" validate:"gte=1"`
	Features        []string `yaml:"features" validate:"min=1,unique,dive,feature_column"`
	Target          string   `yaml:"target" validate:"oneof=usage_minutes engagement_score"`
	CVFolds         int      `yaml:"cv_folds" validate:"gte=2"`
}

// ThresholdConfig holds quality gates and demo sizing.
type ThresholdConfig struct {
	MinR2           float64 `yaml:"min_r2"`
	MaxMAE          float64 `yaml:"max_mae" validate:"gt=0"`
	MinSamples      int     `yaml:"min_samples" validate:"gte=0"`
	MinDateSpanDays int     `yaml:"min_date_span_days" validate:"gte=0"`
	DemoUsers       int     `yaml:"demo_users" validate:"gte=1"`
}

// GenerationConfig selects and tunes the text-generation backend.
type GenerationConfig struct {
	Provider       string        `yaml:"provider" validate:"oneof=auto simulator gemini ollama"`
	Model          string        `yaml:"model" validate:"required"`
	Temperature    float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens      int           `yaml:"max_tokens" validate:"gt=0"`
	Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxRetries     int           `yaml:"max_retries" validate:"gte=0,lte=5"`
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url" validate:"url"`
	OllamaEndpoint string        `yaml:"ollama_endpoint" validate:"url"`
	OllamaModel    string        `yaml:"ollama_model" validate:"required"`
	LogCalls       bool          `yaml:"log_calls"`
}

// OutputConfig controls persisted JSON results.
type OutputConfig struct {
	Dir         string `yaml:"dir" validate:"required"`
	SaveResults bool   `yaml:"save_results"`
}

// StoreConfig controls the run history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Data: DataConfig{
			RequiredColumns:  []string{"userId", "roast_category_1", "roast_intensity", "date", "app_name", "usage_minutes"},
			OptionalColumns:  []string{"roast_category_2", "fcmToken"},
			ValidIntensities: []string{"light", "medium", "brutal"},
			ValidApps:        []string{"Instagram", "TikTok", "YouTube", "Twitter", "Reddit", "Facebook", "Snapchat", "WhatsApp", "LinkedIn"},
			UsageMin:         1,
			UsageMax:         1440,
			DateLayout:       "2006-01-02",
		},
		Model: ModelConfig{
			Kind:            "tree",
			TestSize:        0.2,
			Seed:            42,
			MaxDepth:        10,
			MinSamplesSplit: 5,
			MinSamplesLeaf:  2,
			Trees:           100,
			Features:        []string{"roast_intensity", "app_name", "day_of_week"},
			Target:          "usage_minutes",
			CVFolds:         5,
		},
		Thresholds: ThresholdConfig{
			MinR2:           0.5,
			MaxMAE:          60,
			MinSamples:      100,
			MinDateSpanDays: 7,
			DemoUsers:       5,
		},
		Roast: DefaultCatalog(),
		Generation: GenerationConfig{
			Provider:       "auto",
			Model:          "gemini-pro",
			Temperature:    0.7,
			MaxTokens:      150,
			Timeout:        30 * time.Second,
			MaxRetries:     1,
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta/models",
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "llama3.2",
		},
		Output:  OutputConfig{Dir: "output"},
		Store:   StoreConfig{Enabled: true, Path: defaultStorePath()},
		Workers: runtime.NumCPU(),
	}
}

// EffectiveProvider resolves "auto" to gemini when an API key is set and
// to the simulator otherwise.
func (g GenerationConfig) EffectiveProvider() string {
	if g.Provider != "auto" && g.Provider != "" {
		return g.Provider
	}
	if g.APIKey != "" {
		return "gemini"
	}
	return "simulator"
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".roaster", "roaster.db")
	}
	return filepath.Join(home, ".roaster", "roaster.db")
}
