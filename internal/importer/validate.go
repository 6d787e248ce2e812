package importer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/roaster/internal/domain"
)

// Result is the outcome of validating a table. Valid is false when Errors
// is non-empty; warnings never affect it.
type Result struct {
	Valid    bool             `json:"valid"`
	Errors   []string         `json:"errors"`
	Warnings []domain.Warning `json:"warnings"`
}

// WarningMessages returns the warning texts.
func (r Result) WarningMessages() []string {
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = w.Message
	}
	return out
}

// Validate checks t against s. It never modifies the table.
func Validate(t *Table, s Schema) Result {
	var res Result

	if t.Len() == 0 {
		res.Errors = append(res.Errors, "data is empty")
		return res
	}

	missingCols := validateColumns(t, s, &res)
	present := func(col string) bool { return t.Has(col) && !missingCols[col] }

	for _, e := range sortedEnums(s.Enums) {
		if present(e.column) {
			validateEnum(t, e.column, e.values, &res)
		}
	}
	for _, e := range sortedEnums(s.SoftEnums) {
		if present(e.column) {
			validateSoftEnum(t, e.column, e.values, &res)
		}
	}
	for _, col := range sortedKeys(s.Ranges) {
		if present(col) {
			validateRange(t, col, s.Ranges[col], &res)
		}
	}
	validateMissing(t, s, &res)
	if s.DateColumn != "" && present(s.DateColumn) {
		validateDates(t, s, &res)
	}
	validateDuplicates(t, &res)

	if s.MinSamples > 0 && t.Len() < s.MinSamples {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:    domain.WarnFewSamples,
			Message: fmt.Sprintf("only %d rows; at least %d recommended for reliable training", t.Len(), s.MinSamples),
			Count:   t.Len(),
		})
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func validateColumns(t *Table, s Schema, res *Result) map[string]bool {
	missing := make(map[string]bool)
	for _, col := range s.Required {
		if !t.Has(col) {
			missing[col] = true
			res.Errors = append(res.Errors, fmt.Sprintf("missing required column: %s", col))
		}
	}

	known := make(map[string]bool, len(s.Required)+len(s.Optional))
	for _, c := range s.Required {
		known[c] = true
	}
	for _, c := range s.Optional {
		known[c] = true
	}
	var unexpected []string
	for _, c := range t.Columns {
		if !known[c] {
			unexpected = append(unexpected, c)
		}
	}
	if len(unexpected) > 0 {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:    domain.WarnUnexpectedColumn,
			Message: fmt.Sprintf("unexpected columns: %s", strings.Join(unexpected, ", ")),
			Count:   len(unexpected),
		})
	}
	return missing
}

func validateEnum(t *Table, col string, allowed []string, res *Result) {
	bad, count := outsideSet(t, col, allowed)
	if count > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %d rows with invalid values %s (expected one of %s)",
			col, count, quoteList(bad), strings.Join(allowed, ", ")))
	}
}

func validateSoftEnum(t *Table, col string, allowed []string, res *Result) {
	bad, count := outsideSet(t, col, allowed)
	if count > 0 {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:    domain.WarnUnknownApp,
			Message: fmt.Sprintf("%s: %d rows with unknown values %s", col, count, quoteList(bad)),
			Count:   count,
		})
	}
}

// outsideSet returns the distinct non-empty values of col missing from
// allowed, sorted, plus the number of rows carrying them.
func outsideSet(t *Table, col string, allowed []string) ([]string, int) {
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}
	seen := make(map[string]bool)
	count := 0
	for i := range t.Rows {
		v, present := t.Value(i, col)
		if !present || ok[v] {
			continue
		}
		count++
		seen[v] = true
	}
	bad := make([]string, 0, len(seen))
	for v := range seen {
		bad = append(bad, v)
	}
	sort.Strings(bad)
	return bad, count
}

func validateRange(t *Table, col string, r Range, res *Result) {
	outside, nonNumeric := 0, 0
	for i := range t.Rows {
		v, present := t.Value(i, col)
		if !present {
			continue
		}
		f, ok := ParseNumber(v)
		if !ok {
			nonNumeric++
			continue
		}
		if !r.Contains(f) {
			outside++
		}
	}
	if outside > 0 {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:    domain.WarnOutOfRange,
			Message: fmt.Sprintf("%s: %d values outside %g-%g", col, outside, r.Min, r.Max),
			Count:   outside,
		})
	}
	if nonNumeric > 0 {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:    domain.WarnMissingValues,
			Message: fmt.Sprintf("%s: %d non-numeric values will be treated as missing", col, nonNumeric),
			Count:   nonNumeric,
		})
	}
}

// validateMissing reports empty cells in required columns. The date column
// is checked separately because a missing date cannot be filled.
func validateMissing(t *Table, s Schema, res *Result) {
	var parts []string
	total := 0
	for _, col := range s.Required {
		if col == s.DateColumn || !t.Has(col) {
			continue
		}
		n := 0
		for i := range t.Rows {
			if _, ok := t.Value(i, col); !ok {
				n++
			}
		}
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", col, n))
			total += n
		}
	}
	if total > 0 {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:    domain.WarnMissingValues,
			Message: fmt.Sprintf("missing values in required columns (%s); defaults will be filled", strings.Join(parts, ", ")),
			Count:   total,
		})
	}
}

func validateDates(t *Table, s Schema, res *Result) {
	layout := s.DateLayout
	if layout == "" {
		layout = time.DateOnly
	}

	var first, last time.Time
	var badLines []string
	bad := 0
	for i := range t.Rows {
		v, ok := t.Value(i, s.DateColumn)
		if !ok {
			bad++
			badLines = appendLine(badLines, i)
			continue
		}
		d, err := time.Parse(layout, v)
		if err != nil {
			bad++
			badLines = appendLine(badLines, i)
			continue
		}
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}

	if bad > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %d rows with missing or unparseable dates (lines %s; expected layout %s)",
			s.DateColumn, bad, strings.Join(badLines, ", "), layout))
	}
	if !first.IsZero() && s.MinDateSpanDays > 0 {
		span := int(last.Sub(first).Hours() / 24)
		if span < s.MinDateSpanDays {
			res.Warnings = append(res.Warnings, domain.Warning{
				Code:    domain.WarnShortDateSpan,
				Message: fmt.Sprintf("data spans only %d days; at least %d recommended", span, s.MinDateSpanDays),
				Count:   span,
			})
		}
	}
}

const maxListedLines = 5

func appendLine(lines []string, row int) []string {
	switch {
	case len(lines) < maxListedLines:
		return append(lines, strconv.Itoa(row+1))
	case len(lines) == maxListedLines:
		return append(lines, "...")
	default:
		return lines
	}
}

func validateDuplicates(t *Table, res *Result) {
	seen := make(map[string]bool, len(t.Rows))
	dups := 0
	for _, r := range t.Rows {
		key := strings.Join(r, "\x1f")
		if seen[key] {
			dups++
			continue
		}
		seen[key] = true
	}
	if dups > 0 {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:    domain.WarnDuplicates,
			Message: fmt.Sprintf("found %d duplicate rows", dups),
			Count:   dups,
		})
	}
}

type enumSpec struct {
	column string
	values []string
}

func sortedEnums(m map[string][]string) []enumSpec {
	out := make([]enumSpec, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, enumSpec{column: k, values: m[k]})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quoteList(vals []string) string {
	q := make([]string, len(vals))
	for i, v := range vals {
		q[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(q, ", ") + "]"
}
