package dataset

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanOpts() CleanOptions { return CleanOptions{DateLayout: time.DateOnly} }

func TestClean_CanonicalRowPassesThrough(t *testing.T) {
	records := []domain.UsageRecord{
		testutil.NewTestRecord(),
		testutil.NewTestRecord(testutil.WithLine(2), testutil.WithUsage(150)),
		testutil.NewTestRecord(testutil.WithLine(3), testutil.WithUsage(200)),
		testutil.NewTestRecord(testutil.WithLine(4), testutil.WithUsage(170)),
	}

	out, report, err := Clean(records, cleanOpts())
	require.NoError(t, err)
	require.Len(t, out, 4)

	first := out[0]
	assert.Equal(t, "Instagram", first.AppName)
	assert.Equal(t, 180.0, first.UsageMinutes)
	assert.Equal(t, domain.IntensityMedium, first.RoastIntensity)
	assert.Equal(t, "health", first.RoastCategory)
	assert.Equal(t, domain.NoneCategory, first.SecondaryCategory)
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 0, report.Capped)
	assert.Equal(t, 4, report.DefaultedSecondary)
}

func TestClean_TrimsAndFills(t *testing.T) {
	records := []domain.UsageRecord{
		testutil.NewTestRecord(testutil.WithApp("  TikTok "), testutil.WithSecondary(" sleep "), testutil.WithUsage(100)),
		testutil.NewTestRecord(testutil.WithLine(2), testutil.WithoutUsage(), testutil.WithCategory("")),
		testutil.NewTestRecord(testutil.WithLine(3), testutil.WithUsage(120)),
		testutil.NewTestRecord(testutil.WithLine(4), testutil.WithUsage(140), testutil.WithUser(" ")),
	}

	out, report, err := Clean(records, cleanOpts())
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, "TikTok", out[0].AppName)
	assert.Equal(t, "sleep", out[0].SecondaryCategory)
	assert.Equal(t, 120.0, out[1].UsageMinutes, "median of 100, 120, 140")
	assert.Equal(t, domain.Unknown, out[1].RoastCategory)
	assert.Equal(t, domain.Unknown, out[3].UserID)

	assert.Equal(t, 1, report.FilledUsage)
	assert.Equal(t, 120.0, report.UsageFillValue)
	assert.Equal(t, map[string]int{"roast_category_1": 1, "userId": 1}, report.FilledCategorical)
}

func TestClean_NeverDropsRows(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.IntN(60)
		records := make([]domain.UsageRecord, n)
		for i := range records {
			opts := []testutil.RecordOption{testutil.WithLine(i + 1), testutil.WithUsage(1 + rng.Float64()*1439)}
			if rng.IntN(5) == 0 {
				opts = append(opts, testutil.WithoutUsage())
			}
			records[i] = testutil.NewTestRecord(opts...)
		}
		records[0] = testutil.NewTestRecord(testutil.WithUsage(90))

		out, _, err := Clean(records, cleanOpts())
		require.NoError(t, err)
		assert.Len(t, out, n)
	}
}

func TestClean_CapsOutliers(t *testing.T) {
	usages := []float64{100, 110, 120, 130, 140, 150, 1400}
	records := make([]domain.UsageRecord, len(usages))
	for i, u := range usages {
		records[i] = testutil.NewTestRecord(testutil.WithLine(i+1), testutil.WithUsage(u))
	}

	out, report, err := Clean(records, cleanOpts())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Capped)
	assert.InDelta(t, report.Bounds.Upper, out[6].UsageMinutes, 1e-9)
	assert.Less(t, out[6].UsageMinutes, 1400.0)
	assert.Equal(t, 100.0, out[0].UsageMinutes)
}

func TestClean_BadDateFails(t *testing.T) {
	records := []domain.UsageRecord{
		testutil.NewTestRecord(),
		testutil.NewTestRecord(testutil.WithLine(2), testutil.WithUser("u9"), testutil.WithDate("07/15/2025")),
	}

	_, _, err := Clean(records, cleanOpts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchema))

	var se *domain.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Line)
	assert.Equal(t, "u9", se.UserID)
}

func TestClean_NoUsageAtAll(t *testing.T) {
	_, _, err := Clean([]domain.UsageRecord{testutil.NewTestRecord(testutil.WithoutUsage())}, cleanOpts())
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestClean_Empty(t *testing.T) {
	out, report, err := Clean(nil, cleanOpts())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, report.Rows)
}

func TestCapOutliers_TieHeavyConverges(t *testing.T) {
	// A single clip would stop at 3.75; the bounds keep tightening until
	// nothing is left outside them.
	out, b := CapOutliers([]float64{0, 10, 10, 10})
	require.Len(t, out, 4)
	for _, v := range out {
		assert.InDelta(t, 10, v, 1e-9)
	}
	assert.GreaterOrEqual(t, out[0], b.Lower)
}

func TestCapOutliers_Idempotent(t *testing.T) {
	cases := map[string][]float64{
		"skewed":     {5, 12, 30, 31, 33, 40, 45, 60, 90, 600, 1440},
		"tie heavy":  {0, 10, 10, 10},
		"constant":   {42, 42, 42},
		"single":     {7},
		"two values": {1, 1000},
	}
	for name, vals := range cases {
		t.Run(name, func(t *testing.T) {
			once, _ := CapOutliers(vals)
			twice, _ := CapOutliers(once)
			assert.Equal(t, once, twice)
		})
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 50; trial++ {
		vals := make([]float64, 5+rng.IntN(80))
		for i := range vals {
			vals[i] = 1 + rng.ExpFloat64()*120
		}
		once, _ := CapOutliers(vals)
		twice, _ := CapOutliers(once)
		assert.Equal(t, once, twice)
	}
}
