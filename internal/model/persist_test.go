package model

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/testutil"
)

func TestSaveLoad_RoundTripPredictions(t *testing.T) {
	records := testutil.NewFeatureTable(120, 9)

	for _, kind := range []domain.ModelKind{domain.ModelTree, domain.ModelForest} {
		t.Run(string(kind), func(t *testing.T) {
			p := NewPredictor(modelConfig(kind), 2, nil)
			res, err := p.Train(records)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Save(&buf, res.Model))

			loaded, err := LoadModel(&buf)
			require.NoError(t, err)
			assert.Equal(t, kind, loaded.Kind)
			assert.Equal(t, res.Model.Features, loaded.Features)

			want, err := res.Model.PredictRecords(context.Background(), records, 2)
			require.NoError(t, err)
			got, err := loaded.PredictRecords(context.Background(), records, 2)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, res.Model.FeatureImportances(), loaded.FeatureImportances())
		})
	}
}

func TestSaveFile_LoadFile(t *testing.T) {
	p := NewPredictor(modelConfig(domain.ModelTree), 1, nil)
	res, err := p.Train(testutil.NewFeatureTable(60, 4))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "models", "roaster.json")
	require.NoError(t, SaveFile(path, res.Model))

	loaded, err := LoadFile(path)
	require.NoError(t, err)

	other := NewPredictor(modelConfig(domain.ModelTree), 1, nil)
	require.NoError(t, other.Use(loaded))
	v, err := other.PredictSingle(map[string]string{
		"roast_intensity": "medium",
		"app_name":        "Instagram",
		"day_of_week":     "Tuesday",
	})
	require.NoError(t, err)
	assert.Greater(t, v, 0.0)
}

func TestLoadModel_Rejects(t *testing.T) {
	cases := map[string]string{
		"garbage":       "not json",
		"wrong version": `{"version": 99}`,
		"no encoder":    `{"version": 1, "tree": {"nodes": [{"l": -1, "r": -1, "v": 1}]}}`,
		"no regressor":  `{"version": 1, "encoder": {"columns": ["app"], "categories": [["a", "b"]]}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadModel(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestSave_Untrained(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Save(&buf, nil), domain.ErrModelState)
}
