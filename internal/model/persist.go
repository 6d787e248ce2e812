package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/roaster/internal/domain"
)

const modelFormatVersion = 1

type modelFile struct {
	Version   int              `json:"version"`
	Kind      domain.ModelKind `json:"kind"`
	Features  []string         `json:"features"`
	Target    string           `json:"target"`
	TrainedAt time.Time        `json:"trained_at"`
	Encoder   *OneHotEncoder   `json:"encoder"`
	Tree      *DecisionTree    `json:"tree,omitempty"`
	Forest    *RandomForest    `json:"forest,omitempty"`
}

// Save writes m as JSON.
func Save(w io.Writer, m *TrainedModel) error {
	if m == nil || m.Regressor == nil {
		return domain.ErrModelState
	}
	f := modelFile{
		Version:   modelFormatVersion,
		Kind:      m.Kind,
		Features:  m.Features,
		Target:    m.Target,
		TrainedAt: m.TrainedAt,
		Encoder:   m.Encoder,
	}
	switch r := m.Regressor.(type) {
	case *DecisionTree:
		f.Tree = r
	case *RandomForest:
		f.Forest = r
	default:
		return fmt.Errorf("saving model: unsupported regressor %T", m.Regressor)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// LoadModel reads a model written by Save.
func LoadModel(r io.Reader) (*TrainedModel, error) {
	var f modelFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	if f.Version != modelFormatVersion {
		return nil, fmt.Errorf("unsupported model version %d", f.Version)
	}
	if !f.Encoder.Fitted() {
		return nil, fmt.Errorf("loading model: %w", ErrNotFitted)
	}

	m := &TrainedModel{
		Kind:      f.Kind,
		Features:  f.Features,
		Target:    f.Target,
		TrainedAt: f.TrainedAt,
		Encoder:   f.Encoder,
	}
	switch {
	case f.Tree != nil && len(f.Tree.Nodes) > 0:
		m.Regressor = f.Tree
	case f.Forest != nil && len(f.Forest.Trees) > 0:
		m.Regressor = f.Forest
	default:
		return nil, fmt.Errorf("loading model: no fitted regressor")
	}
	return m, nil
}

// SaveFile writes m to path through a temporary file and rename.
func SaveFile(path string, m *TrainedModel) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, m); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadFile reads a model from path.
func LoadFile(path string) (*TrainedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	return LoadModel(f)
}
