package avail

import "time"

// Overlaps reports whether two intervals overlap. Touching endpoints count:
// [12:00,14:00) overlaps [14:00,16:00), but not [14:30,16:00).
func (a Availability) Overlaps(b Availability) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

// absorb widens a to cover b elementwise.
func (a *Availability) absorb(b Availability) {
	if b.Start.Before(a.Start) {
		a.Start = b.Start
	}
	if b.End.After(a.End) {
		a.End = b.End
	}
}

// MergeOverlapping folds a start-sorted list of windows into a minimal
// non-overlapping sorted cover. Input order matters: the fold runs left to
// right against the last accumulated window.
func MergeOverlapping(avails []Availability) []Availability {
	var res []Availability
	for _, a := range avails {
		if n := len(res); n > 0 && res[n-1].Overlaps(a) {
			res[n-1].absorb(a)
			continue
		}
		res = append(res, a)
	}
	return res
}

// Split cuts each window into consecutive sub-windows of exactly duration,
// starting at the window's start. A remainder shorter than duration is
// dropped.
func Split(avails []Availability, duration time.Duration) []Availability {
	var res []Availability
	for _, a := range avails {
		for curr := a.Start; !curr.Add(duration).After(a.End); curr = curr.Add(duration) {
			res = append(res, Availability{Start: curr, End: curr.Add(duration)})
		}
	}
	return res
}

// GroupByDay buckets start-sorted windows by the calendar date of their
// start, preserving order. Used when a selection spanning several days is
// split into per-day sub-slots.
func GroupByDay(avails []Availability) []DayAvailability {
	var out []DayAvailability
	for _, a := range avails {
		day := dateOf(a.Start)
		if n := len(out); n > 0 && out[n-1].Day.Equal(day) {
			out[n-1].Windows = append(out[n-1].Windows, a)
			continue
		}
		out = append(out, DayAvailability{Day: day, Windows: []Availability{a}})
	}
	return out
}
