package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/roaster/internal/logger"
)

func TestLogUseCaseObserver_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	obs := NewLogUseCaseObserver(&l)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		UseCase:  "run",
		RunID:    "abc",
		Duration: 1500 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"results": 5},
	})

	out := buf.String()
	assert.Contains(t, out, `"use_case":"run"`)
	assert.Contains(t, out, `"run_id":"abc"`)
	assert.Contains(t, out, `"duration_ms":1500`)
	assert.Contains(t, out, `"results":5`)
	assert.Contains(t, out, `"level":"info"`)
}

func TestLogUseCaseObserver_ErrorAndContextRunID(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	obs := NewLogUseCaseObserver(&l)

	ctx := logger.WithRun(context.Background(), "ctx-run")
	obs.ObserveUseCase(ctx, UseCaseEvent{UseCase: "run", RunID: "ctx-run", Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"run_id"`)))
}

func TestNewLogUseCaseObserver_NilIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
}
