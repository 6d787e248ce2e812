package importer

import (
	"math"
	"strconv"

	"github.com/alexanderramin/roaster/internal/domain"
)

// Convert parses every table row into a UsageRecord. Empty or non-numeric
// usage becomes nil; an empty secondary category becomes nil. Strings are
// kept as read.
func Convert(t *Table) []domain.UsageRecord {
	records := make([]domain.UsageRecord, 0, t.Len())
	for i := range t.Rows {
		raw := func(col string) string {
			idx, ok := t.columnIndex()[col]
			if !ok {
				return ""
			}
			return t.Rows[i][idx]
		}

		rec := domain.UsageRecord{
			Line:           i + 1,
			UserID:         raw(ColUserID),
			AppName:        raw(ColAppName),
			RoastIntensity: raw(ColRoastIntensity),
			RoastCategory:  raw(ColRoastCategory),
			Date:           raw(ColDate),
		}
		if v, ok := t.Value(i, ColUsageMinutes); ok {
			if f, ok := ParseNumber(v); ok {
				rec.UsageMinutes = &f
			}
		}
		if v, ok := t.Value(i, ColSecondaryCategory); ok {
			rec.SecondaryCategory = &v
		}
		records = append(records, rec)
	}
	return records
}

// ValidateFile loads the CSV at path and validates it against s.
func ValidateFile(path string, s Schema) (*Table, Result, error) {
	t, err := LoadCSV(path)
	if err != nil {
		return nil, Result{}, err
	}
	return t, Validate(t, s), nil
}

// ParseNumber parses a finite float. Inf and NaN spellings are rejected so
// they count as missing instead of reaching the numeric stages.
func ParseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
