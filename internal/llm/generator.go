// Package llm turns composed roast directives into text through a
// pluggable generation backend.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/logger"
)

// Generator accepts one directive and returns one response.
type Generator interface {
	Generate(ctx context.Context, directive string) (string, error)
	Name() string
}

// NewFromConfig builds the configured backend wrapped with the simulator
// as fallback. A hosted provider without credentials degrades to the
// simulator with a warning.
func NewFromConfig(cfg config.GenerationConfig, observer Observer, log *logger.Logger) Generator {
	if log == nil {
		log = logger.Nop()
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	sim := NewSimulator()

	switch cfg.EffectiveProvider() {
	case ProviderGemini:
		g, err := NewGeminiClient(cfg, observer)
		if err != nil {
			log.Warn().Err(err).Msg("gemini not configured, using simulator")
			return sim
		}
		return WithFallback(g, sim, log)
	case ProviderOllama:
		return WithFallback(NewOllamaClient(cfg, observer), sim, log)
	default:
		return sim
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

// retryPolicy runs one call with a per-attempt timeout and up to
// MaxRetries extra attempts. It stops early once the caller's context ends.
type retryPolicy struct {
	Timeout    time.Duration
	MaxRetries int
}

func (p retryPolicy) run(ctx context.Context, fn func(context.Context) (string, error)) (string, int, error) {
	attempts := 1 + max(p.MaxRetries, 0)
	var lastErr error
	for i := 1; i <= attempts; i++ {
		text, err := p.attempt(ctx, fn)
		if err == nil {
			return text, i, nil
		}
		lastErr = err

		// Don't retry on caller cancellation
		if ctx.Err() != nil {
			return "", i, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
	}
	return "", attempts, classify(lastErr)
}

func (p retryPolicy) attempt(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	return fn(ctx)
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, ErrInvalidOutput):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}
