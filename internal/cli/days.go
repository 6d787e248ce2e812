package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/roaster/internal/domain"
)

// parseWeekday accepts a full or three-letter English day name in any
// case and returns the canonical name.
func parseWeekday(s string) (time.Weekday, string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if s == strings.ToLower(name) || s == strings.ToLower(name[:3]) {
			return d, name, nil
		}
	}
	return 0, "", fmt.Errorf("unknown day %q", s)
}

// dayFeatures returns the calendar features derived from a day name.
func dayFeatures(day string) (map[string]string, error) {
	d, name, err := parseWeekday(day)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"day_of_week": name,
		"is_weekend":  fmt.Sprintf("%t", domain.IsWeekend(d)),
	}, nil
}
