package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.2, cfg.Model.TestSize)
	assert.Equal(t, uint64(42), cfg.Model.Seed)
	assert.Equal(t, 10, cfg.Model.MaxDepth)
	assert.Equal(t, []string{"roast_intensity", "app_name", "day_of_week"}, cfg.Model.Features)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
	assert.Len(t, cfg.Roast.HinglishPhrases, 16)
	assert.Contains(t, cfg.Roast.CategoryFocus, "None")
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(apiKeyEnv, "")

	path := filepath.Join(t.TempDir(), "roaster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model:
  kind: forest
  trees: 25
generation:
  timeout: 5s
roast:
  app_contexts:
    Netflix: "their one-more-episode promises"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "forest", cfg.Model.Kind)
	assert.Equal(t, 25, cfg.Model.Trees)
	assert.Equal(t, 10, cfg.Model.MaxDepth, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "their one-more-episode promises", cfg.Roast.AppContexts["Netflix"])
	assert.Contains(t, cfg.Roast.AppContexts, "Instagram", "map entries merge into defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(apiKeyEnv, "secret")
	t.Setenv("ROASTER_MODEL_KIND", "forest")
	t.Setenv("ROASTER_DEMO_USERS", "3")
	t.Setenv("ROASTER_GENERATION_TIMEOUT", "2s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "forest", cfg.Model.Kind)
	assert.Equal(t, 3, cfg.Thresholds.DemoUsers)
	assert.Equal(t, 2*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "gemini", cfg.Generation.EffectiveProvider())
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("ROASTER_WORKERS", "many")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROASTER_WORKERS")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"test size", func(c *Config) { c.Model.TestSize = 1.5 }, "model.test_size"},
		{"max depth", func(c *Config) { c.Model.MaxDepth = 0 }, "model.max_depth"},
		{"empty features", func(c *Config) { c.Model.Features = nil }, "model.features"},
		{"unknown feature", func(c *Config) { c.Model.Features = []string{"shoe_size"} }, "encodable column"},
		{"usage range", func(c *Config) { c.Data.UsageMax = 0 }, "data.usage_max"},
		{"provider", func(c *Config) { c.Generation.Provider = "openai" }, "generation.provider"},
		{"empty catalog", func(c *Config) { c.Roast.AppContexts = map[string]string{} }, "roast.app_contexts"},
		{"intensity without instruction", func(c *Config) {
			delete(c.Roast.IntensityInstructions, "brutal")
		}, `missing entry for "brutal"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEffectiveProvider(t *testing.T) {
	g := Defaults().Generation
	assert.Equal(t, "simulator", g.EffectiveProvider())

	g.APIKey = "k"
	assert.Equal(t, "gemini", g.EffectiveProvider())

	g.Provider = "ollama"
	assert.Equal(t, "ollama", g.EffectiveProvider())
}

func TestCatalogSortedKeys(t *testing.T) {
	cat := DefaultCatalog()
	assert.Equal(t, []string{"brutal", "light", "medium"}, cat.Intensities())
	assert.Equal(t, "Facebook", cat.Apps()[0])
}
