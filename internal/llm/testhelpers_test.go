package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/roaster/internal/config"
)

func testConfig(baseURL string) config.GenerationConfig {
	cfg := config.Defaults().Generation
	cfg.Provider = ProviderGemini
	cfg.APIKey = "test-key"
	cfg.BaseURL = baseURL
	cfg.OllamaEndpoint = baseURL
	cfg.Timeout = time.Second
	cfg.MaxRetries = 0
	return cfg
}

type captureObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *captureObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *captureObserver) last() CallEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type stubGenerator struct {
	name string
	text string
	err  error
}

func (s stubGenerator) Name() string { return s.name }

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.text, s.err
}

var errBoom = errors.New("boom")
