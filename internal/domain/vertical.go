package domain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Mode selects between the two vertical fetch shapes of the pipeline.
type Mode int

const (
	// Surface fetches a single depth level with no blending. It also
	// covers depths matching a stored level exactly.
	Surface Mode = iota
	// Interpolated fetches two adjacent levels and blends them.
	Interpolated
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	if m == Interpolated {
		return "interpolated"
	}
	return "surface"
}

// Position locates a requested depth among the fixed vertical levels.
// In Surface mode only Lower is meaningful. In Interpolated mode Lower
// and Lower+1 are both valid level indices and 0 < Fraction < 1 is the
// weight of the upper level.
type Position struct {
	Mode     Mode
	Lower    int
	Fraction float64
}

// ResolveDepth maps a requested depth onto the stored vertical levels via
// piecewise-linear inverse interpolation of the level values against their
// index positions.
//
// A depth matching a stored level exactly (fraction 0) collapses to a
// single-level Surface position, so blend weights are never ambiguous.
// Depths outside [levels[0], levels[last]] fail with DepthRangeError.
func ResolveDepth(levels []float64, depth float64) (Position, error) {
	if len(levels) == 0 {
		return Position{}, fmt.Errorf("depth levels are empty")
	}
	minLevel := levels[0]
	maxLevel := levels[len(levels)-1]
	if depth < minLevel || depth > maxLevel {
		return Position{}, &DepthRangeError{RequestedM: depth, MinLevelM: minLevel, MaxLevelM: maxLevel}
	}

	for k := 0; k < len(levels)-1; k++ {
		if depth == levels[k] {
			return Position{Mode: Surface, Lower: k}, nil
		}
		if depth < levels[k+1] {
			fraction := (depth - levels[k]) / (levels[k+1] - levels[k])
			return Position{Mode: Interpolated, Lower: k, Fraction: fraction}, nil
		}
	}

	// depth == maxLevel.
	return Position{Mode: Surface, Lower: len(levels) - 1}, nil
}

// Blend linearly combines two depth-level series elementwise:
// out[t] = (1-fraction)*lower[t] + fraction*upper[t].
func Blend(lower, upper []float64, fraction float64) ([]float64, error) {
	if len(lower) != len(upper) {
		return nil, fmt.Errorf("level series lengths differ: %d vs %d", len(lower), len(upper))
	}
	out := make([]float64, len(lower))
	copy(out, lower)
	floats.Scale(1-fraction, out)
	floats.AddScaled(out, fraction, upper)
	return out, nil
}
