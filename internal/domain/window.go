package domain

import (
	"sort"
	"time"
)

// Window is a contiguous, inclusive index range into a time axis.
type Window struct {
	Start int // Last index with axis[Start] <= requested start.
	End   int // First index with axis[End] >= requested end.
}

// Len returns the number of time samples covered by the window.
func (w Window) Len() int {
	return w.End - w.Start + 1
}

// ResolveWindow maps a requested [start, end) interval onto the stored time
// axis. The window is inclusive of the bracketing samples, so it can be
// wider than the request by up to one sample on each side; there is no
// interpolation in time. With duplicate timestamps, Start resolves to the
// last occurrence and End to the first.
func ResolveWindow(axis []time.Time, start, end time.Time) (Window, error) {
	if len(axis) == 0 {
		return Window{}, &TimeRangeError{Edge: "start", Requested: start}
	}
	first := axis[0]
	last := axis[len(axis)-1]

	// Last index with axis[i] <= start.
	s := sort.Search(len(axis), func(i int) bool { return axis[i].After(start) }) - 1
	if s < 0 {
		return Window{}, &TimeRangeError{Edge: "start", Requested: start, AxisFirst: first, AxisLast: last}
	}

	// First index with axis[i] >= end.
	e := sort.Search(len(axis), func(i int) bool { return !axis[i].Before(end) })
	if e == len(axis) {
		return Window{}, &TimeRangeError{Edge: "end", Requested: end, AxisFirst: first, AxisLast: last}
	}

	return Window{Start: s, End: e}, nil
}
