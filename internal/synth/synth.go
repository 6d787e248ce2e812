// Package synth generates seeded sample usage tables for demos.
package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/dataset"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/importer"
)

// Header is the column order of generated tables.
var Header = []string{
	importer.ColUserID,
	importer.ColRoastCategory,
	importer.ColSecondaryCategory,
	importer.ColRoastIntensity,
	importer.ColDate,
	importer.ColAppName,
	importer.ColUsageMinutes,
}

const (
	defaultDays       = 30
	fallbackAvgMinute = 60
	weekendBoost      = 1.2
)

// Options controls Generate.
type Options struct {
	Rows  int
	Seed  uint64
	Start time.Time
	Days  int

	Apps        []string
	Intensities []string
	Categories  []string
}

// OptionsFromConfig fills the value lists from cfg.
func OptionsFromConfig(cfg config.Config, rows int, seed uint64) Options {
	var cats []string
	for _, c := range cfg.Roast.Categories() {
		if c != domain.NoneCategory {
			cats = append(cats, c)
		}
	}
	return Options{
		Rows:        rows,
		Seed:        seed,
		Start:       time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -defaultDays),
		Days:        defaultDays,
		Apps:        append([]string(nil), cfg.Data.ValidApps...),
		Intensities: append([]string(nil), cfg.Data.ValidIntensities...),
		Categories:  cats,
	}
}

// Generate returns opts.Rows rows of plausible usage data. App choice is
// weighted by typical daily minutes and usage is drawn around that
// average, heavier on weekends and for harsher roast preferences. The
// same options always produce the same table.
func Generate(opts Options) (*importer.Table, error) {
	if opts.Rows <= 0 {
		return nil, fmt.Errorf("generate: rows must be positive, got %d", opts.Rows)
	}
	if len(opts.Apps) == 0 || len(opts.Intensities) == 0 || len(opts.Categories) == 0 {
		return nil, fmt.Errorf("generate: apps, intensities and categories are required")
	}
	days := opts.Days
	if days <= 0 {
		days = defaultDays
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	weights := make([]float64, len(opts.Apps))
	total := 0.0
	for i, app := range opts.Apps {
		weights[i] = average(app)
		total += weights[i]
	}
	users := max(opts.Rows/4, 1)

	t := importer.NewTable(Header, nil)
	for i := 0; i < opts.Rows; i++ {
		app := opts.Apps[pick(rng, weights, total)]
		intensity := opts.Intensities[rng.IntN(len(opts.Intensities))]
		date := start.AddDate(0, 0, i%days)

		minutes := average(app) * (0.5 + rng.Float64())
		minutes *= 1 + 0.1*(domain.Intensity(intensity).Weight()-1)
		if domain.IsWeekend(date.Weekday()) {
			minutes *= weekendBoost
		}
		minutes = math.Round(math.Min(math.Max(minutes, 1), 1440))

		secondary := ""
		if rng.IntN(2) == 0 {
			secondary = opts.Categories[rng.IntN(len(opts.Categories))]
		}

		t.Append([]string{
			fmt.Sprintf("user_%03d", rng.IntN(users)+1),
			opts.Categories[rng.IntN(len(opts.Categories))],
			secondary,
			intensity,
			date.Format(time.DateOnly),
			app,
			strconv.FormatFloat(minutes, 'f', -1, 64),
		})
	}
	return t, nil
}

func average(app string) float64 {
	if v, ok := dataset.GlobalAverages[app]; ok {
		return v
	}
	return fallbackAvgMinute
}

func pick(rng *rand.Rand, weights []float64, total float64) int {
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}
