package domain

import (
	"errors"
	"math"
	"testing"
)

var fixedLevels = []float64{0, 3, 10, 15, 25, 50, 75, 100, 150, 200, 250, 300}

// TestResolveDepth_Surface checks that depth 0 resolves to the surface
// level with no blending.
func TestResolveDepth_Surface(t *testing.T) {
	pos, err := ResolveDepth(fixedLevels, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pos.Mode != Surface {
		t.Errorf("Mode: expected surface, got %s", pos.Mode)
	}
	if pos.Lower != 0 {
		t.Errorf("Lower: expected 0, got %d", pos.Lower)
	}
}

// TestResolveDepth_Bracket checks the documented example: depth 5 between
// levels 3 and 10 yields fraction 2/7.
func TestResolveDepth_Bracket(t *testing.T) {
	pos, err := ResolveDepth(fixedLevels, 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pos.Mode != Interpolated {
		t.Fatalf("Mode: expected interpolated, got %s", pos.Mode)
	}
	if pos.Lower != 1 {
		t.Errorf("Lower: expected 1 (level 3 m), got %d", pos.Lower)
	}
	want := 2.0 / 7.0
	if math.Abs(pos.Fraction-want) > 1e-12 {
		t.Errorf("Fraction: expected %.10f, got %.10f", want, pos.Fraction)
	}
}

// TestResolveDepth_ExactLevel checks that an exact level match collapses to
// a single-level position with no blend ambiguity.
func TestResolveDepth_ExactLevel(t *testing.T) {
	tests := []struct {
		depth float64
		index int
	}{
		{3, 1},
		{25, 4},
		{300, 11}, // Maximum level.
	}

	for _, tt := range tests {
		pos, err := ResolveDepth(fixedLevels, tt.depth)
		if err != nil {
			t.Fatalf("Unexpected error at depth %.0f: %v", tt.depth, err)
		}
		if pos.Mode != Surface {
			t.Errorf("Depth %.0f: expected surface mode, got %s", tt.depth, pos.Mode)
		}
		if pos.Lower != tt.index {
			t.Errorf("Depth %.0f: expected level index %d, got %d", tt.depth, tt.index, pos.Lower)
		}
		if pos.Fraction != 0 {
			t.Errorf("Depth %.0f: expected zero fraction, got %v", tt.depth, pos.Fraction)
		}
	}
}

// TestResolveDepth_OutOfRange checks the DepthRangeError cases.
func TestResolveDepth_OutOfRange(t *testing.T) {
	_, err := ResolveDepth(fixedLevels, 301)
	var depthErr *DepthRangeError
	if !errors.As(err, &depthErr) {
		t.Fatalf("Expected DepthRangeError for depth 301, got %v", err)
	}
	if depthErr.MaxLevelM != 300 {
		t.Errorf("MaxLevelM: expected 300, got %v", depthErr.MaxLevelM)
	}

	// Below the first level when it is not the surface.
	_, err = ResolveDepth([]float64{5, 10, 20}, 2)
	if !errors.As(err, &depthErr) {
		t.Fatalf("Expected DepthRangeError below the first level, got %v", err)
	}
}

// TestResolveDepth_InterpolatedInvariants checks 0 < fraction < 1 and valid
// bracketing indices across the level range.
func TestResolveDepth_InterpolatedInvariants(t *testing.T) {
	for depth := 0.5; depth < 300; depth += 7.3 {
		pos, err := ResolveDepth(fixedLevels, depth)
		if err != nil {
			t.Fatalf("Unexpected error at depth %.1f: %v", depth, err)
		}
		if pos.Mode != Interpolated {
			continue
		}
		if pos.Fraction <= 0 || pos.Fraction >= 1 {
			t.Errorf("Depth %.1f: fraction %v outside (0, 1)", depth, pos.Fraction)
		}
		if pos.Lower < 0 || pos.Lower+1 >= len(fixedLevels) {
			t.Errorf("Depth %.1f: bracket [%d, %d] out of range", depth, pos.Lower, pos.Lower+1)
		}
		if depth <= fixedLevels[pos.Lower] || depth >= fixedLevels[pos.Lower+1] {
			t.Errorf("Depth %.1f: not inside bracket [%v, %v]", depth, fixedLevels[pos.Lower], fixedLevels[pos.Lower+1])
		}
	}
}

// TestBlend checks the elementwise linear combination.
func TestBlend(t *testing.T) {
	lower := []float64{1, 2, 3, 4}
	upper := []float64{5, 6, 7, 8}

	out, err := Blend(lower, upper, 0.25)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []float64{2, 3, 4, 5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("Sample %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

// TestBlend_Endpoints checks that fraction 0 and values near 1 weight the
// levels correctly.
func TestBlend_Endpoints(t *testing.T) {
	lower := []float64{1, -2}
	upper := []float64{3, 4}

	out, err := Blend(lower, upper, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := range lower {
		if math.Abs(out[i]-lower[i]) > 1e-12 {
			t.Errorf("Fraction 0 should reproduce the lower level at %d: got %v", i, out[i])
		}
	}
}

// TestBlend_LengthMismatch checks structural validation.
func TestBlend_LengthMismatch(t *testing.T) {
	if _, err := Blend([]float64{1}, []float64{1, 2}, 0.5); err == nil {
		t.Fatal("Expected error for mismatched lengths, got nil")
	}
}
