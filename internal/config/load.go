package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "ROASTER_CONFIG"
	apiKeyEnv     = "GEMINI_API_KEY"
)

// Load builds a Config from defaults, the YAML file at path (or
// $ROASTER_CONFIG when path is empty) and environment overrides, then
// validates it.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	var errs []error

	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}

	str("ROASTER_MODEL_KIND", &c.Model.Kind)
	integer("ROASTER_MODEL_MAX_DEPTH", &c.Model.MaxDepth)
	integer("ROASTER_MODEL_TREES", &c.Model.Trees)
	if v := os.Getenv("ROASTER_MODEL_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("ROASTER_MODEL_SEED: %w", err))
		} else {
			c.Model.Seed = n
		}
	}
	if v := os.Getenv("ROASTER_MODEL_FEATURES"); v != "" {
		c.Model.Features = splitList(v)
	}
	integer("ROASTER_DEMO_USERS", &c.Thresholds.DemoUsers)
	integer("ROASTER_WORKERS", &c.Workers)
	str("ROASTER_OUTPUT_DIR", &c.Output.Dir)
	boolean("ROASTER_SAVE_RESULTS", &c.Output.SaveResults)
	str("ROASTER_DB", &c.Store.Path)
	boolean("ROASTER_STORE_ENABLED", &c.Store.Enabled)

	str("ROASTER_GENERATION_PROVIDER", &c.Generation.Provider)
	str("ROASTER_GENERATION_MODEL", &c.Generation.Model)
	integer("ROASTER_GENERATION_MAX_RETRIES", &c.Generation.MaxRetries)
	boolean("ROASTER_GENERATION_LOG_CALLS", &c.Generation.LogCalls)
	if v := os.Getenv("ROASTER_GENERATION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("ROASTER_GENERATION_TIMEOUT: %w", err))
		} else {
			c.Generation.Timeout = d
		}
	}
	str("ROASTER_OLLAMA_ENDPOINT", &c.Generation.OllamaEndpoint)
	str("ROASTER_OLLAMA_MODEL", &c.Generation.OllamaModel)
	str(apiKeyEnv, &c.Generation.APIKey)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
