package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/importer"
)

func testOptions(rows int, seed uint64) Options {
	opts := OptionsFromConfig(config.Defaults(), rows, seed)
	opts.Start = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return opts
}

func TestGenerate_PassesValidation(t *testing.T) {
	cfg := config.Defaults()
	table, err := Generate(testOptions(200, 42))
	require.NoError(t, err)
	assert.Equal(t, 200, table.Len())

	res := importer.Validate(table, importer.SchemaFromConfig(cfg))
	assert.True(t, res.Valid, res.Errors)
	for _, w := range res.Warnings {
		assert.NotEqual(t, domain.WarnUnknownApp, w.Code)
		assert.NotEqual(t, domain.WarnOutOfRange, w.Code)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(testOptions(50, 7))
	require.NoError(t, err)
	b, err := Generate(testOptions(50, 7))
	require.NoError(t, err)
	assert.Equal(t, a.Rows, b.Rows)

	c, err := Generate(testOptions(50, 8))
	require.NoError(t, err)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestGenerate_DatesAreConsecutive(t *testing.T) {
	opts := testOptions(35, 1)
	opts.Days = 30
	table, err := Generate(opts)
	require.NoError(t, err)

	first, _ := table.Value(0, importer.ColDate)
	last, _ := table.Value(29, importer.ColDate)
	wrapped, _ := table.Value(30, importer.ColDate)
	assert.Equal(t, "2025-07-01", first)
	assert.Equal(t, "2025-07-30", last)
	assert.Equal(t, first, wrapped)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := Generate(testOptions(0, 1))
	assert.Error(t, err)

	opts := testOptions(10, 1)
	opts.Apps = nil
	_, err = Generate(opts)
	assert.Error(t, err)
}
