package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	at := time.Date(2025, 7, 15, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "roast_results_20250715_090503.json", FileName(at))
}

func TestWrite_CreatesDirAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	at := time.Date(2025, 7, 15, 9, 5, 3, 0, time.UTC)

	payload := map[string]any{"run_id": "abc", "metrics": map[string]float64{"mae": 12.5}}
	path, err := Write(dir, at, payload)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName(at)), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FileName(at), entries[0].Name())

	var got struct {
		RunID   string             `json:"run_id"`
		Metrics map[string]float64 `json:"metrics"`
	}
	require.NoError(t, Read(path, &got))
	assert.Equal(t, "abc", got.RunID)
	assert.InDelta(t, 12.5, got.Metrics["mae"], 1e-12)
}

func TestWrite_KeepsNonASCII(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, time.Now(), map[string]string{"generated_text": "Arre yaar <3 😅"})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Arre yaar <3 😅")
}

func TestWrite_UnencodableValue(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, time.Now(), map[string]any{"bad": make(chan int)})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRead_Missing(t *testing.T) {
	var v map[string]any
	assert.Error(t, Read(filepath.Join(t.TempDir(), "nope.json"), &v))
}
