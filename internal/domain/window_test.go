package domain

import (
	"errors"
	"testing"
	"time"
)

func hourAxis(n int) []time.Time {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	axis := make([]time.Time, n)
	for i := range axis {
		axis[i] = base.Add(time.Duration(i) * time.Hour)
	}
	return axis
}

// TestResolveWindow_Bracketing checks the documented last-below/first-above
// bracketing: axis [0..5] hours, request [1.5, 3.5) -> indices 1..4.
func TestResolveWindow_Bracketing(t *testing.T) {
	axis := hourAxis(6)
	base := axis[0]

	w, err := ResolveWindow(axis, base.Add(90*time.Minute), base.Add(210*time.Minute))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w.Start != 1 {
		t.Errorf("Start: expected 1, got %d", w.Start)
	}
	if w.End != 4 {
		t.Errorf("End: expected 4, got %d", w.End)
	}
	if w.Len() != 4 {
		t.Errorf("Len: expected 4, got %d", w.Len())
	}
}

// TestResolveWindow_ExactSamples checks that requests landing exactly on
// stored samples resolve to those samples.
func TestResolveWindow_ExactSamples(t *testing.T) {
	axis := hourAxis(6)

	w, err := ResolveWindow(axis, axis[2], axis[4])
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w.Start != 2 || w.End != 4 {
		t.Errorf("Expected window [2, 4], got [%d, %d]", w.Start, w.End)
	}
}

// TestResolveWindow_DuplicateTimestamps checks tie resolution: the start
// resolves to the last duplicate, the end to the first.
func TestResolveWindow_DuplicateTimestamps(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	axis := []time.Time{
		base,
		base.Add(1 * time.Hour),
		base.Add(1 * time.Hour),
		base.Add(2 * time.Hour),
		base.Add(2 * time.Hour),
		base.Add(3 * time.Hour),
	}

	w, err := ResolveWindow(axis, base.Add(1*time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w.Start != 2 {
		t.Errorf("Start should resolve to the last duplicate: expected 2, got %d", w.Start)
	}
	if w.End != 3 {
		t.Errorf("End should resolve to the first duplicate: expected 3, got %d", w.End)
	}
}

// TestResolveWindow_OutOfRange checks both unresolvable endpoints.
func TestResolveWindow_OutOfRange(t *testing.T) {
	axis := hourAxis(6)
	base := axis[0]

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		edge  string
	}{
		{"fully before axis", base.Add(-3 * time.Hour), base.Add(-1 * time.Hour), "start"},
		{"start before first sample", base.Add(-1 * time.Minute), base.Add(2 * time.Hour), "start"},
		{"end after last sample", base.Add(1 * time.Hour), base.Add(6 * time.Hour), "end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveWindow(axis, tt.start, tt.end)
			var rangeErr *TimeRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("Expected TimeRangeError, got %v", err)
			}
			if rangeErr.Edge != tt.edge {
				t.Errorf("Edge: expected %q, got %q", tt.edge, rangeErr.Edge)
			}
		})
	}
}

// TestResolveWindow_EmptyAxis checks the degenerate axis.
func TestResolveWindow_EmptyAxis(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := ResolveWindow(nil, base, base.Add(time.Hour))
	var rangeErr *TimeRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Expected TimeRangeError for empty axis, got %v", err)
	}
}
