package avail

import (
	"sort"
	"time"
)

// Find computes the free windows per calendar day for the search described
// by cfg, given the busy events retrieved for the window. The input order
// of events does not matter; they are sorted by start here. The result is
// ordered by day; each day's windows are ordered by start and
// non-overlapping.
//
// An empty result is a valid outcome (no free time found), distinct from
// the error returned for a malformed config.
func Find(cfg SearchConfig, events []Event) ([]DayAvailability, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc := cfg.location()

	evs := make([]Event, len(events))
	copy(evs, events)
	for i := range evs {
		evs[i].Start = evs[i].Start.In(loc)
		evs[i].End = evs[i].End.In(loc)
	}
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].Start.Before(evs[j].Start) })
	groups := groupByDay(evs)

	maxClock := bandClock(cfg.Max)
	end := cfg.End.In(loc)

	// Start the cursor at the later of the window start and that day's band
	// minimum, snapped up to the half-hour grid.
	curr := cfg.Min.On(cfg.Start.In(loc))
	if cfg.Start.After(curr) {
		curr = cfg.Start.In(loc)
	}
	curr = CeilHalfHour(curr)

	var out []DayAvailability
	gi := 0

	for curr.Before(end) {
		if gi < len(groups) {
			g := groups[gi]
			gi++

			// Days before the group's day carry no events at all: emit one
			// full-band window per day, then land the cursor on the group.
			for dateOf(curr).Before(g.day) {
				if clockOf(curr) < maxClock {
					if cfg.IncludeWeekends || !isWeekend(curr.Weekday()) {
						out = append(out, DayAvailability{
							Day:     dateOf(curr),
							Windows: []Availability{{Start: curr, End: cfg.Max.On(curr)}},
						})
					}
				}
				curr = cfg.Min.On(nextDate(curr))
			}

			if !cfg.IncludeWeekends && isWeekend(g.day.Weekday()) {
				// The whole day is excluded, busy or not.
				if dateOf(curr).Equal(g.day) {
					curr = cfg.Min.On(nextDate(curr))
				}
				continue
			}

			windows := []Availability{}
			currClock := bandClock(cfg.Min)

			for _, ev := range g.events {
				if currClock < clockOf(ev.Start) {
					// Round so the window doesn't start or end at an odd
					// minute offset.
					availStart := CeilHalfHour(atClock(g.day, currClock))
					evEnd := ev.Start
					if bound := cfg.Max.On(g.day); bound.Before(evEnd) {
						evEnd = bound
					}
					availEnd := FloorHalfHour(evEnd)

					if clockOf(availEnd)-clockOf(availStart) >= cfg.Duration &&
						clockOf(availStart) < maxClock {
						windows = append(windows, Availability{Start: availStart, End: availEnd})
					}
				}
				// Busy until this event ends; never move backward even when
				// events overlap or nest.
				if c := clockOf(ev.End); c > currClock {
					currClock = c
				}
			}

			// Time left between the last event and the band maximum.
			if currClock < maxClock {
				availStart := CeilHalfHour(atClock(g.day, currClock))
				availEnd := cfg.Max.On(g.day)
				if availEnd.Sub(availStart) >= cfg.Duration {
					windows = append(windows, Availability{Start: availStart, End: availEnd})
				}
			}

			out = append(out, DayAvailability{Day: g.day, Windows: windows})
			curr = cfg.Min.On(nextDate(g.day))
		} else {
			// No event groups remain: every day up to the window end is free.
			for dateOf(curr).Before(dateOf(end)) ||
				(dateOf(curr).Equal(dateOf(end)) && curr.Before(end)) {
				if cfg.IncludeWeekends || !isWeekend(curr.Weekday()) {
					start := CeilHalfHour(curr)
					bandEnd := cfg.Max.On(curr)
					if clockOf(start) <= maxClock && bandEnd.Sub(start) >= cfg.Duration {
						out = append(out, DayAvailability{
							Day:     dateOf(curr),
							Windows: []Availability{{Start: start, End: bandEnd}},
						})
					}
				}
				curr = cfg.Min.On(nextDate(curr))
			}
		}
	}

	return out, nil
}

type dayGroup struct {
	day    time.Time
	events []Event
}

// groupByDay groups consecutive events sharing a calendar day. The input
// must already be sorted by start, so a day's events are never split
// across two groups.
func groupByDay(events []Event) []dayGroup {
	var groups []dayGroup
	for _, ev := range events {
		day := dateOf(ev.Start)
		if n := len(groups); n > 0 && groups[n-1].day.Equal(day) {
			groups[n-1].events = append(groups[n-1].events, ev)
			continue
		}
		groups = append(groups, dayGroup{day: day, events: []Event{ev}})
	}
	return groups
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// dateOf returns midnight of t's calendar date in t's location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextDate(t time.Time) time.Time {
	return dateOf(t).AddDate(0, 0, 1)
}

// clockOf returns t's wall clock as a duration since midnight, seconds
// included.
func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

func bandClock(t TimeOfDay) time.Duration {
	return time.Duration(t.Minutes()) * time.Minute
}

// atClock anchors a clock duration to day's date, dropping seconds the same
// way window construction always does before rounding.
func atClock(day time.Time, clock time.Duration) time.Time {
	h := int(clock / time.Hour)
	m := int(clock/time.Minute) % 60
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location())
}
