package avail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nov4(h, min int) time.Time { return mk(2022, time.November, 4, h, min) }

func TestOverlaps(t *testing.T) {
	a := Availability{Start: nov4(12, 0), End: nov4(14, 0)}
	gap := Availability{Start: nov4(14, 30), End: nov4(16, 0)}
	touching := Availability{Start: nov4(14, 0), End: nov4(16, 0)}

	assert.False(t, a.Overlaps(gap))
	assert.True(t, a.Overlaps(touching))
	assert.True(t, touching.Overlaps(a))
}

func TestMergeOverlapping(t *testing.T) {
	avails := []Availability{
		{Start: nov4(12, 0), End: nov4(14, 0)},
		{Start: nov4(14, 30), End: nov4(16, 0)},
		{Start: nov4(16, 0), End: nov4(17, 0)},
		{Start: nov4(16, 30), End: nov4(18, 0)},
	}

	merged := MergeOverlapping(avails)
	require.Len(t, merged, 2)
	assert.True(t, merged[0].Equal(Availability{Start: nov4(12, 0), End: nov4(14, 0)}))
	assert.True(t, merged[1].Equal(Availability{Start: nov4(14, 30), End: nov4(18, 0)}))

	// Idempotent on its own output.
	again := MergeOverlapping(merged)
	require.Len(t, again, len(merged))
	for i := range merged {
		assert.True(t, again[i].Equal(merged[i]))
	}
}

func TestMergeOverlappingEmpty(t *testing.T) {
	assert.Empty(t, MergeOverlapping(nil))
}

func TestSplit(t *testing.T) {
	window := Availability{Start: nov4(9, 0), End: nov4(11, 15)}

	slots := Split([]Availability{window}, 30*time.Minute)
	// floor(135m / 30m) slots, the 15-minute remainder is dropped.
	require.Len(t, slots, 4)
	for i, s := range slots {
		assert.Equal(t, 30*time.Minute, s.Duration(), "slot %d", i)
		assert.False(t, s.Start.Before(window.Start))
		assert.False(t, s.End.After(window.End))
	}
	assert.True(t, slots[0].Start.Equal(window.Start))
	assert.True(t, slots[3].End.Equal(nov4(11, 0)))
}

func TestSplitShorterThanDuration(t *testing.T) {
	window := Availability{Start: nov4(9, 0), End: nov4(9, 20)}
	assert.Empty(t, Split([]Availability{window}, 30*time.Minute))
}

func TestSplitExactFit(t *testing.T) {
	window := Availability{Start: nov4(9, 0), End: nov4(10, 0)}
	slots := Split([]Availability{window}, time.Hour)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Equal(window))
}

func TestGroupByDay(t *testing.T) {
	avails := []Availability{
		{Start: nov4(9, 0), End: nov4(10, 0)},
		{Start: nov4(15, 0), End: nov4(16, 0)},
		{Start: mk(2022, time.November, 5, 9, 0), End: mk(2022, time.November, 5, 10, 0)},
	}

	days := GroupByDay(avails)
	require.Len(t, days, 2)
	assert.True(t, days[0].Day.Equal(mk(2022, time.November, 4, 0, 0)))
	assert.Len(t, days[0].Windows, 2)
	assert.True(t, days[1].Day.Equal(mk(2022, time.November, 5, 0, 0)))
	assert.Len(t, days[1].Windows, 1)
}

func TestLabel(t *testing.T) {
	a := Availability{Start: nov4(9, 0), End: nov4(12, 0)}
	assert.Equal(t, "Fri Nov 04 - 09:00 AM to 12:00 PM (3h)", a.Label())

	b := Availability{Start: nov4(9, 0), End: nov4(10, 30)}
	assert.Equal(t, "Fri Nov 04 - 09:00 AM to 10:30 AM (1h30m)", b.Label())

	c := Availability{Start: nov4(9, 0), End: nov4(9, 45)}
	assert.Equal(t, "Fri Nov 04 - 09:00 AM to 09:45 AM (45m)", c.Label())
}

func TestFormatAvailability(t *testing.T) {
	out := FormatAvailability([]Availability{
		{Start: nov4(9, 0), End: nov4(12, 0)},
		{Start: nov4(14, 0), End: nov4(15, 30)},
	})
	assert.Equal(t, "Fri Nov 04 2022\n- 09:00 AM to 12:00 PM\n- 02:00 PM to 03:30 PM\n", out)
}
