package avail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.UTC

func mk(y int, mo time.Month, d, h, min int) time.Time {
	return time.Date(y, mo, d, h, min, 0, 0, testLoc)
}

func oct(d, h, min int) time.Time { return mk(2022, time.October, d, h, min) }

func busy(start, end time.Time) Event {
	ev, err := NewEvent("id", "name", start, end)
	if err != nil {
		panic(err)
	}
	return ev
}

func bandConfig(start, end time.Time) SearchConfig {
	return SearchConfig{
		Start:           start,
		End:             end,
		Min:             TimeOfDay{Hour: 9},
		Max:             TimeOfDay{Hour: 17},
		Duration:        30 * time.Minute,
		IncludeWeekends: true,
		Location:        testLoc,
	}
}

func TestCeilHalfHour(t *testing.T) {
	assert.Equal(t, oct(5, 0, 0), CeilHalfHour(oct(5, 0, 0)))
	assert.Equal(t, oct(5, 0, 30), CeilHalfHour(oct(5, 0, 2)))
	assert.Equal(t, oct(5, 1, 0), CeilHalfHour(oct(5, 0, 42)))

	// Rolls into the next day.
	assert.Equal(t, oct(6, 0, 0), CeilHalfHour(oct(5, 23, 42)))

	// Seconds are discarded.
	assert.Equal(t, oct(5, 0, 30), CeilHalfHour(oct(5, 0, 2).Add(30*time.Second)))
	assert.Equal(t, oct(5, 0, 0), CeilHalfHour(oct(5, 0, 0).Add(15*time.Second)))
}

func TestFloorHalfHour(t *testing.T) {
	assert.Equal(t, oct(5, 0, 0), FloorHalfHour(oct(5, 0, 0)))
	assert.Equal(t, oct(5, 0, 0), FloorHalfHour(oct(5, 0, 2)))
	assert.Equal(t, oct(5, 0, 30), FloorHalfHour(oct(5, 0, 42)))

	// Seconds are discarded.
	assert.Equal(t, oct(5, 0, 0), FloorHalfHour(oct(5, 0, 2).Add(30*time.Second)))
}

func TestFind(t *testing.T) {
	events := []Event{
		busy(oct(5, 12, 0), oct(5, 14, 0)),
		busy(oct(5, 15, 30), oct(5, 16, 0)),
		busy(oct(5, 16, 0), oct(5, 18, 0)),
		// Outside the 9-17 band.
		busy(oct(5, 19, 0), oct(5, 21, 0)),
		busy(oct(6, 5, 30), oct(6, 7, 0)),
		busy(oct(6, 8, 30), oct(6, 12, 0)),
	}

	days, err := Find(bandConfig(oct(5, 0, 0), oct(7, 0, 0)), events)
	require.NoError(t, err)
	require.Len(t, days, 2)

	require.Len(t, days[0].Windows, 2)
	assert.True(t, days[0].Windows[0].Equal(Availability{Start: oct(5, 9, 0), End: oct(5, 12, 0)}))
	assert.True(t, days[0].Windows[1].Equal(Availability{Start: oct(5, 14, 0), End: oct(5, 15, 30)}))

	require.Len(t, days[1].Windows, 1)
	assert.True(t, days[1].Windows[0].Equal(Availability{Start: oct(6, 12, 0), End: oct(6, 17, 0)}))
}

func TestFindWithoutWeekends(t *testing.T) {
	nov := func(d, h, min int) time.Time { return mk(2022, time.November, d, h, min) }

	events := []Event{
		// Friday.
		busy(nov(18, 12, 0), nov(18, 14, 0)),
		busy(nov(18, 15, 30), nov(18, 17, 0)),
		// Saturday: busy day, must vanish entirely.
		busy(nov(19, 15, 0), nov(19, 17, 0)),
		// Monday.
		busy(nov(21, 8, 30), nov(21, 11, 0)),
		busy(nov(21, 13, 0), nov(21, 14, 0)),
	}

	cfg := bandConfig(nov(18, 0, 0), nov(22, 0, 0))
	cfg.IncludeWeekends = false

	days, err := Find(cfg, events)
	require.NoError(t, err)
	require.Len(t, days, 2)

	require.Len(t, days[0].Windows, 2)
	assert.True(t, days[0].Windows[0].Equal(Availability{Start: nov(18, 9, 0), End: nov(18, 12, 0)}))
	assert.True(t, days[0].Windows[1].Equal(Availability{Start: nov(18, 14, 0), End: nov(18, 15, 30)}))

	require.Len(t, days[1].Windows, 2)
	assert.True(t, days[1].Windows[0].Equal(Availability{Start: nov(21, 11, 0), End: nov(21, 13, 0)}))
	assert.True(t, days[1].Windows[1].Equal(Availability{Start: nov(21, 14, 0), End: nov(21, 17, 0)}))
}

func TestFindRounding(t *testing.T) {
	events := []Event{
		busy(oct(5, 11, 55), oct(5, 12, 35)),
		busy(oct(5, 13, 35), oct(5, 14, 10)),
		busy(oct(5, 15, 30), oct(5, 16, 5)),
	}

	days, err := Find(bandConfig(oct(5, 0, 0), oct(6, 0, 0)), events)
	require.NoError(t, err)
	require.Len(t, days, 1)

	want := []Availability{
		{Start: oct(5, 9, 0), End: oct(5, 11, 30)},
		{Start: oct(5, 13, 0), End: oct(5, 13, 30)},
		{Start: oct(5, 14, 30), End: oct(5, 15, 30)},
		{Start: oct(5, 16, 30), End: oct(5, 17, 0)},
	}
	require.Len(t, days[0].Windows, len(want))
	for i, w := range want {
		assert.True(t, days[0].Windows[i].Equal(w), "window %d: got %v want %v", i, days[0].Windows[i], w)
	}
}

func TestFindNoEvents(t *testing.T) {
	days, err := Find(bandConfig(oct(5, 0, 0), oct(7, 0, 0)), nil)
	require.NoError(t, err)
	require.Len(t, days, 2)

	require.Len(t, days[0].Windows, 1)
	assert.True(t, days[0].Windows[0].Equal(Availability{Start: oct(5, 9, 0), End: oct(5, 17, 0)}))
	require.Len(t, days[1].Windows, 1)
	assert.True(t, days[1].Windows[0].Equal(Availability{Start: oct(6, 9, 0), End: oct(6, 17, 0)}))
}

func TestFindStartsWithFullFreeDay(t *testing.T) {
	events := []Event{
		// Nothing on Oct 5.
		busy(oct(6, 12, 0), oct(6, 14, 0)),
		busy(oct(6, 15, 30), oct(6, 16, 0)),
	}

	days, err := Find(bandConfig(oct(5, 0, 0), oct(7, 0, 0)), events)
	require.NoError(t, err)
	require.Len(t, days, 2)

	require.Len(t, days[0].Windows, 1)
	assert.True(t, days[0].Windows[0].Equal(Availability{Start: oct(5, 9, 0), End: oct(5, 17, 0)}))

	want := []Availability{
		{Start: oct(6, 9, 0), End: oct(6, 12, 0)},
		{Start: oct(6, 14, 0), End: oct(6, 15, 30)},
		{Start: oct(6, 16, 0), End: oct(6, 17, 0)},
	}
	require.Len(t, days[1].Windows, len(want))
	for i, w := range want {
		assert.True(t, days[1].Windows[i].Equal(w))
	}
}

// A gap exactly as long as the minimum duration qualifies, both between
// events and at the end of the day.
func TestFindExactDurationBoundary(t *testing.T) {
	events := []Event{
		busy(oct(5, 9, 0), oct(5, 14, 0)),
		busy(oct(5, 14, 30), oct(5, 16, 30)),
	}

	days, err := Find(bandConfig(oct(5, 0, 0), oct(6, 0, 0)), events)
	require.NoError(t, err)
	require.Len(t, days, 1)

	want := []Availability{
		{Start: oct(5, 14, 0), End: oct(5, 14, 30)},
		{Start: oct(5, 16, 30), End: oct(5, 17, 0)},
	}
	require.Len(t, days[0].Windows, len(want))
	for i, w := range want {
		assert.True(t, days[0].Windows[i].Equal(w))
	}

	// One minute under the minimum is rejected: the 14:00-14:30 gap shrinks
	// to nothing once the 14:01 start is floored to 14:00.
	days, err = Find(bandConfig(oct(5, 0, 0), oct(6, 0, 0)), []Event{
		busy(oct(5, 9, 0), oct(5, 14, 0)),
		busy(oct(5, 14, 1), oct(5, 17, 0)),
	})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Empty(t, days[0].Windows)
}

func TestFindBusyWeekendExcluded(t *testing.T) {
	// Oct 8 2022 is a Saturday.
	cfg := bandConfig(oct(8, 0, 0), oct(9, 0, 0))
	cfg.IncludeWeekends = false

	days, err := Find(cfg, []Event{busy(oct(8, 10, 0), oct(8, 11, 0))})
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestFindOverlappingEventsAdvanceMonotonically(t *testing.T) {
	// The nested event must not pull the cursor backward.
	events := []Event{
		busy(oct(5, 9, 0), oct(5, 15, 0)),
		busy(oct(5, 10, 0), oct(5, 11, 0)),
	}

	days, err := Find(bandConfig(oct(5, 0, 0), oct(6, 0, 0)), events)
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Len(t, days[0].Windows, 1)
	assert.True(t, days[0].Windows[0].Equal(Availability{Start: oct(5, 15, 0), End: oct(5, 17, 0)}))
}

func TestFindRejectsMalformedConfig(t *testing.T) {
	cfg := bandConfig(oct(7, 0, 0), oct(5, 0, 0))
	_, err := Find(cfg, nil)
	assert.Error(t, err)

	cfg = bandConfig(oct(5, 0, 0), oct(7, 0, 0))
	cfg.Duration = 0
	_, err = Find(cfg, nil)
	assert.Error(t, err)

	cfg = bandConfig(oct(5, 0, 0), oct(7, 0, 0))
	cfg.Min, cfg.Max = cfg.Max, cfg.Min
	_, err = Find(cfg, nil)
	assert.Error(t, err)
}

func TestNewEventRejectsBackwardInterval(t *testing.T) {
	_, err := NewEvent("id", "name", oct(5, 12, 0), oct(5, 11, 0))
	assert.Error(t, err)

	// Zero-length events are fine.
	_, err = NewEvent("id", "name", oct(5, 12, 0), oct(5, 12, 0))
	assert.NoError(t, err)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "9:00am", want: TimeOfDay{Hour: 9}},
		{in: "5:30pm", want: TimeOfDay{Hour: 17, Minute: 30}},
		{in: "12:00am", want: TimeOfDay{Hour: 0}},
		{in: "12:15PM", want: TimeOfDay{Hour: 12, Minute: 15}},
		{in: "17:00", wantErr: true},
		{in: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
