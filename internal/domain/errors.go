package domain

import (
	"fmt"
	"time"
)

// TimeRangeError indicates that a requested time window cannot be bracketed
// by the dataset's time axis. Edge names which endpoint failed.
type TimeRangeError struct {
	Edge      string // "start" or "end"
	Requested time.Time
	AxisFirst time.Time
	AxisLast  time.Time
}

func (e *TimeRangeError) Error() string {
	return fmt.Sprintf("requested %s time %s is outside the dataset time span [%s, %s]",
		e.Edge,
		e.Requested.UTC().Format(time.RFC3339),
		e.AxisFirst.UTC().Format(time.RFC3339),
		e.AxisLast.UTC().Format(time.RFC3339))
}

// DepthRangeError indicates that a requested depth falls outside the fixed
// vertical levels stored in the dataset.
type DepthRangeError struct {
	RequestedM float64
	MinLevelM  float64
	MaxLevelM  float64
}

func (e *DepthRangeError) Error() string {
	return fmt.Sprintf("requested depth %.2f m is outside the supported levels [%.2f, %.2f] m",
		e.RequestedM, e.MinLevelM, e.MaxLevelM)
}

// SpatialDomainError indicates that the nearest grid cell to a query point
// is farther away than the configured acceptance threshold, i.e. the point
// lies outside the grid's physical domain.
type SpatialDomainError struct {
	Lat, Lon    float64
	DistanceDeg float64
	MaxDeg      float64
}

func (e *SpatialDomainError) Error() string {
	return fmt.Sprintf("position (%.4f, %.4f) is %.4f deg from the nearest grid cell (max %.4f deg) - outside the model domain",
		e.Lat, e.Lon, e.DistanceDeg, e.MaxDeg)
}

// DataSourceError indicates that the external data source failed: it was
// unreachable, returned malformed data, or timed out after retries.
type DataSourceError struct {
	Op  string // E.g., "read u", "read angle".
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source failure during %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
