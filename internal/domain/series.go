// Package domain implements the extraction pipeline core: temporal window
// resolution, nearest-cell search on curvilinear grids, vertical level
// interpolation, and grid-to-geographic vector rotation.
package domain

import (
	"fmt"
	"time"
)

// Sample is one point of an extracted velocity time series. U and V are
// eastward and northward velocity in meters per second.
type Sample struct {
	Time time.Time
	U    float64
	V    float64
}

// Series is the ordered extraction output, one Sample per stored time step
// inside the resolved window.
type Series []Sample

// GridMetadata describes the static geometry of a curvilinear model grid:
// the time axis, the fixed vertical levels, and per-cell geographic
// coordinates. It is read-only once loaded.
type GridMetadata struct {
	TimeAxis    []time.Time // Ascending, may contain repeated stamps.
	DepthLevels []float64   // Ascending fixed depths in meters.
	Lat         [][]float64 // Lat[i][j] in decimal degrees.
	Lon         [][]float64 // Lon[i][j] in decimal degrees, same shape as Lat.
}

// Validate checks the structural invariants of the metadata.
func (m *GridMetadata) Validate() error {
	if len(m.TimeAxis) == 0 {
		return fmt.Errorf("time axis is empty")
	}
	for i := 1; i < len(m.TimeAxis); i++ {
		if m.TimeAxis[i].Before(m.TimeAxis[i-1]) {
			return fmt.Errorf("time axis is not ascending at index %d", i)
		}
	}
	if len(m.DepthLevels) < 1 {
		return fmt.Errorf("depth levels are empty")
	}
	for i := 1; i < len(m.DepthLevels); i++ {
		if m.DepthLevels[i] <= m.DepthLevels[i-1] {
			return fmt.Errorf("depth levels must be strictly increasing (index %d)", i)
		}
	}
	if len(m.Lat) == 0 || len(m.Lat[0]) == 0 {
		return fmt.Errorf("coordinate grids are empty")
	}
	if len(m.Lat) != len(m.Lon) {
		return fmt.Errorf("lat grid has %d rows, lon grid has %d", len(m.Lat), len(m.Lon))
	}
	for i := range m.Lat {
		if len(m.Lat[i]) != len(m.Lat[0]) || len(m.Lon[i]) != len(m.Lat[0]) {
			return fmt.Errorf("coordinate grids are ragged at row %d", i)
		}
	}
	return nil
}

// Shape returns the (I, J) dimensions of the coordinate grids.
func (m *GridMetadata) Shape() (int, int) {
	if len(m.Lat) == 0 {
		return 0, 0
	}
	return len(m.Lat), len(m.Lat[0])
}
