// Package avail implements the availability engine: turning a list of busy
// calendar events into free time windows within a search window and
// business-hour band.
//
// The core entry point is Find, which sweeps the search window day by day,
// subtracting busy events from the business-hour band and emitting free
// windows that satisfy the minimum-duration requirement. Window starts are
// rounded up and window ends rounded down to a 30-minute grid so that no
// window begins or ends at an odd minute offset.
//
// MergeOverlapping and Split post-process windows after a caller has
// narrowed the result to a subset: Split cuts a coarse window into
// fixed-duration sub-slots, MergeOverlapping folds a sorted selection into
// a minimal non-overlapping cover.
//
// All computation here is pure; events are fetched elsewhere (see the
// retrieve package) and handed in as a flat, unordered list.
package avail
