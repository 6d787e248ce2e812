// Package roast composes roast directives for the generation backend.
package roast

import (
	"fmt"
	"math"
)

// FormatDuration renders minutes as whole hours and minutes, floored,
// dropping a unit whose count is zero. Negative input formats as zero.
func FormatDuration(minutes float64) string {
	total := 0
	if minutes > 0 && !math.IsInf(minutes, 1) {
		total = int(math.Floor(minutes))
	}
	h, m := total/60, total%60

	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%s and %s", plural(h, "hour"), plural(m, "minute"))
	case h > 0:
		return plural(h, "hour")
	default:
		return plural(m, "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
