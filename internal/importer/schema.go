package importer

import (
	"strings"

	"github.com/alexanderramin/roaster/internal/config"
)

// Table is a raw delimited table. Every row has one cell per column.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a Table, padding or truncating rows to the column count.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

// Append adds a row, padding or truncating it to the column count.
func (t *Table) Append(row []string) {
	cells := make([]string, len(t.Columns))
	copy(cells, row)
	t.Rows = append(t.Rows, cells)
}

// Has reports whether the table carries the column.
func (t *Table) Has(column string) bool {
	_, ok := t.columnIndex()[column]
	return ok
}

// Value returns the trimmed cell at row i for column. ok is false when the
// column is absent or the cell is empty.
func (t *Table) Value(i int, column string) (string, bool) {
	idx, ok := t.columnIndex()[column]
	if !ok || i < 0 || i >= len(t.Rows) {
		return "", false
	}
	v := strings.TrimSpace(t.Rows[i][idx])
	return v, v != ""
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) columnIndex() map[string]int {
	if t.index == nil || len(t.index) != len(t.Columns) {
		t.index = make(map[string]int, len(t.Columns))
		for i, c := range t.Columns {
			t.index[strings.TrimSpace(c)] = i
		}
	}
	return t.index
}

// Range is an inclusive numeric bound.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the bound.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Schema declares what a valid input table looks like.
type Schema struct {
	Required []string
	Optional []string

	// Enums are hard constraints: a value outside the set is an error.
	Enums map[string][]string
	// SoftEnums are advisory: a value outside the set is a warning.
	SoftEnums map[string][]string
	// Ranges are advisory numeric bounds.
	Ranges map[string]Range

	DateColumn      string
	DateLayout      string
	MinSamples      int
	MinDateSpanDays int
}

// Column names used by the pipeline.
const (
	ColUserID            = "userId"
	ColRoastCategory     = "roast_category_1"
	ColSecondaryCategory = "roast_category_2"
	ColRoastIntensity    = "roast_intensity"
	ColDate              = "date"
	ColAppName           = "app_name"
	ColUsageMinutes      = "usage_minutes"
)

// SchemaFromConfig derives the input schema from configuration.
func SchemaFromConfig(cfg config.Config) Schema {
	return Schema{
		Required: cfg.Data.RequiredColumns,
		Optional: cfg.Data.OptionalColumns,
		Enums: map[string][]string{
			ColRoastIntensity: cfg.Data.ValidIntensities,
		},
		SoftEnums: map[string][]string{
			ColAppName: cfg.Data.ValidApps,
		},
		Ranges: map[string]Range{
			ColUsageMinutes: {Min: cfg.Data.UsageMin, Max: cfg.Data.UsageMax},
		},
		DateColumn:      ColDate,
		DateLayout:      cfg.Data.DateLayout,
		MinSamples:      cfg.Thresholds.MinSamples,
		MinDateSpanDays: cfg.Thresholds.MinDateSpanDays,
	}
}
