package avail

import "time"

// roundToMinute is the grid all window endpoints snap to.
const roundToMinute = 30

// CeilHalfHour snaps t up to the next 30-minute boundary. A timestamp
// already on the grid is returned unchanged apart from dropped seconds.
// Rounding up may roll into the next hour or day.
func CeilHalfHour(t time.Time) time.Time {
	t = truncateToMinute(t)
	m := t.Minute()
	if m%roundToMinute == 0 {
		return t
	}
	next := (m/roundToMinute + 1) * roundToMinute
	return t.Add(time.Duration(next-m) * time.Minute)
}

// FloorHalfHour snaps t down to the previous 30-minute boundary, dropping
// seconds first.
func FloorHalfHour(t time.Time) time.Time {
	t = truncateToMinute(t)
	m := t.Minute()
	if m%roundToMinute == 0 {
		return t
	}
	return t.Add(-time.Duration(m%roundToMinute) * time.Minute)
}

func truncateToMinute(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, t.Location())
}
