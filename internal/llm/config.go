package llm

import (
	"time"

	"github.com/alexanderramin/roaster/internal/config"
)

// Provider names.
const (
	ProviderSimulator = "simulator"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// Status describes the configured backend.
type Status struct {
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Timeout     time.Duration `json:"timeout"`
	MaxRetries  int           `json:"max_retries"`
	HasAPIKey   bool          `json:"has_api_key"`
	Configured  bool          `json:"is_configured"`
}

// StatusOf reports what NewFromConfig would build from cfg.
func StatusOf(cfg config.GenerationConfig) Status {
	provider := cfg.EffectiveProvider()
	s := Status{
		Provider:    provider,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		HasAPIKey:   cfg.APIKey != "",
	}
	switch provider {
	case ProviderGemini:
		s.Configured = s.HasAPIKey
	case ProviderOllama:
		s.Model = cfg.OllamaModel
		s.Configured = true
	default:
		s.Model = ProviderSimulator
		s.Configured = true
	}
	return s
}
