package avail

import (
	"fmt"
	"strings"
	"time"
)

// Label renders a single window for selection prompts, e.g.
// "Wed Oct 05 - 09:00 AM to 12:00 PM (3h)".
func (a Availability) Label() string {
	return fmt.Sprintf("%s - %s to %s (%s)",
		a.Start.Format("Mon Jan 02"),
		a.Start.Format("03:04 PM"),
		a.End.Format("03:04 PM"),
		formatSpan(a.Duration()))
}

// FormatAvailability renders start-sorted windows grouped under per-day
// headers, the shape that gets printed and copied at the end of a search:
//
//	Wed Oct 05 2022
//	- 09:00 AM to 12:00 PM
//	- 02:00 PM to 03:30 PM
func FormatAvailability(avails []Availability) string {
	var b strings.Builder
	for _, day := range GroupByDay(avails) {
		fmt.Fprintf(&b, "%s\n", day.Day.Format("Mon Jan 02 2006"))
		for _, w := range day.Windows {
			fmt.Fprintf(&b, "- %s to %s\n",
				w.Start.Format("03:04 PM"), w.End.Format("03:04 PM"))
		}
	}
	return b.String()
}

// formatSpan writes a duration as "2h", "1h30m" or "45m".
func formatSpan(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	var b strings.Builder
	if h >= 1 {
		fmt.Fprintf(&b, "%dh", h)
		if m >= 1 {
			fmt.Fprintf(&b, "%dm", m)
		}
	} else if m >= 1 {
		fmt.Fprintf(&b, "%dm", m)
	}
	return b.String()
}
