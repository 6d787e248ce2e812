// Package report writes pipeline run reports to disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	filePrefix      = "roast_results_"
	timestampLayout = "20060102_150405"
)

// FileName is the report file name for a run generated at t.
func FileName(t time.Time) string {
	return filePrefix + t.Format(timestampLayout) + ".json"
}

// Write encodes v as indented JSON into dir/FileName(at) and returns the
// path. The file is written to a temporary name in dir and renamed, so a
// reader never sees a partial report.
func Write(dir string, at time.Time, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, FileName(at))

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename report: %w", err)
	}
	return path, nil
}

// Read decodes a report previously produced by Write into v.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode report %s: %w", filepath.Base(path), err)
	}
	return nil
}
