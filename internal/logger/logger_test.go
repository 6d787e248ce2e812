package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithServiceAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "json", Service: "roaster", Writer: &buf})

	log.Info().Msg("dropped")
	log.Warn().Str("k", "v").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "roaster", entry["service"])
	assert.Equal(t, "v", entry["k"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zerolog.Disabled, parseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}

func TestC_AddsRunID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Level: "info", Format: "json", Writer: &buf})

	ctx := WithRun(context.Background(), "run-1")
	C(ctx, Component(&base, "pipeline")).Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "pipeline", entry["component"])
}

func TestRunID_Missing(t *testing.T) {
	assert.Empty(t, RunID(context.Background()))
	assert.Equal(t, context.Background(), WithRun(context.Background(), ""))
}
