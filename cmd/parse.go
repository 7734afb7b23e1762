package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// dateLayout is the MM/DD/YYYY form accepted by --start and --end.
const dateLayout = "01/02/2006"

// parseDate reads a MM/DD/YYYY date as midnight in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected MM/DD/YYYY", s)
	}
	return t, nil
}

var spanPattern = regexp.MustCompile(`^([0-9]+)(w|d|h|m)$`)

// parseSpan reads a duration in the form <int>(w|d|h|m), e.g. "1w" or
// "30m".
func parseSpan(s string) (time.Duration, error) {
	m := spanPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q, expected <int>(w|d|h|m)", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	switch m[2] {
	case "w":
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	}
	return 0, fmt.Errorf("unsupported duration unit %q", m[2])
}
