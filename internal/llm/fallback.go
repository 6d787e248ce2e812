package llm

import (
	"context"
	"fmt"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/logger"
)

// ApologyText is returned when both the primary and fallback backends fail.
const ApologyText = "Sorry yaar, roast machine thoda busy hai! Try again later! 😅"

// fallbackGenerator never returns an error.
type fallbackGenerator struct {
	primary  Generator
	fallback Generator
	log      *logger.Logger
}

// WithFallback wraps primary so that any failure is logged and answered by
// fallback, and a failing fallback is answered with ApologyText.
func WithFallback(primary, fallback Generator, log *logger.Logger) Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &fallbackGenerator{primary: primary, fallback: fallback, log: log}
}

func (g *fallbackGenerator) Name() string {
	return g.primary.Name() + "+" + g.fallback.Name()
}

func (g *fallbackGenerator) Generate(ctx context.Context, directive string) (string, error) {
	text, err := g.primary.Generate(ctx, directive)
	if err == nil {
		return text, nil
	}

	log := logger.C(ctx, g.log)
	genErr := fmt.Errorf("%w: %s: %w", domain.ErrGeneration, g.primary.Name(), err)
	log.Warn().
		Err(genErr).
		Str("provider", g.primary.Name()).
		Str("error_code", ErrorCode(err)).
		Str("fallback", g.fallback.Name()).
		Msg("generation failed, using fallback")

	text, err = g.fallback.Generate(ctx, directive)
	if err != nil {
		log.Error().Err(err).Str("provider", g.fallback.Name()).Msg("fallback generation failed")
		return ApologyText, nil
	}
	return text, nil
}
