package avail

import (
	"fmt"
	"strings"
	"time"
)

// Event is a normalized busy interval from any calendar provider.
// Events are immutable and only live for the duration of one availability
// computation; nothing here is persisted.
type Event struct {
	ID    string
	Name  string
	Start time.Time
	End   time.Time
}

// NewEvent builds an Event, rejecting intervals that end before they start.
// Provider adapters must construct events through this so that malformed
// invariants never reach the finder.
func NewEvent(id, name string, start, end time.Time) (Event, error) {
	if end.Before(start) {
		return Event{}, fmt.Errorf("event %s: end %s before start %s", id, end, start)
	}
	return Event{ID: id, Name: name, Start: start, End: end}, nil
}

// Window is a half-open [Start, End) search interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// TimeOfDay is a wall-clock time within a day, minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Minutes returns the time of day as minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

// Before reports whether t is earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool { return t.Minutes() < u.Minutes() }

// On anchors the time of day to the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses a time like "9:00am" or "5:30pm".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("3:04pm", strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q (want e.g. 9:00am): %w", s, err)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// SearchConfig describes one availability search. It is supplied once per
// invocation and treated as immutable for the run.
type SearchConfig struct {
	// Start and End bound the search window, half-open [Start, End).
	Start time.Time
	End   time.Time

	// Min and Max bound the business-hour band within each day.
	Min TimeOfDay
	Max TimeOfDay

	// Duration is the minimum length a free window must have to qualify.
	// A window exactly Duration long qualifies.
	Duration time.Duration

	// IncludeWeekends controls whether Saturdays and Sundays are searched.
	IncludeWeekends bool

	// Location is the zone all day boundaries and band comparisons are
	// evaluated in. Defaults to time.Local when nil.
	Location *time.Location
}

// Validate rejects malformed search windows before the finder runs.
func (c SearchConfig) Validate() error {
	if c.End.Before(c.Start) {
		return fmt.Errorf("search end %s before start %s", c.End, c.Start)
	}
	if c.Max.Before(c.Min) {
		return fmt.Errorf("band max %s before min %s", c.Max, c.Min)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	return nil
}

func (c SearchConfig) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

// Availability is a computed free interval.
type Availability struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the free interval.
func (a Availability) Duration() time.Duration { return a.End.Sub(a.Start) }

// Equal reports whether both endpoints match.
func (a Availability) Equal(b Availability) bool {
	return a.Start.Equal(b.Start) && a.End.Equal(b.End)
}

// DayAvailability is the free windows found on a single calendar day.
// Day is midnight of that date in the search location. Windows are ordered
// by start and non-overlapping; the slice may be empty for a fully busy day.
type DayAvailability struct {
	Day     time.Time
	Windows []Availability
}
