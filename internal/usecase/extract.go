// Package usecase orchestrates the extraction pipeline: it resolves a
// request into dataset indices, fetches exactly the needed velocity slab,
// blends vertical levels, and rotates the result into geographic
// components.
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.ngs.io/currents-api/internal/adapter/source"
	"go.ngs.io/currents-api/internal/domain"
)

// ExtractionRequest describes one point extraction. It is immutable once
// built.
type ExtractionRequest struct {
	Start  time.Time // Inclusive lower bound of the requested interval.
	End    time.Time // Exclusive upper bound; must be after Start.
	Lat    float64   // Decimal degrees.
	Lon    float64   // Decimal degrees.
	DepthM float64   // Meters below the surface, >= 0.
}

// Validate checks the request against its structural bounds.
func (r ExtractionRequest) Validate() error {
	if !r.Start.Before(r.End) {
		return fmt.Errorf("start time must be before end time")
	}
	if r.Lat < -90 || r.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if r.Lon < -180 || r.Lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if r.DepthM < 0 {
		return fmt.Errorf("depth must be non-negative")
	}
	return nil
}

// Config carries the injected settings of the pipeline. Endpoints are the
// two Sources; everything else tunes the guards around them.
type Config struct {
	// MaxCellDistanceDeg bounds the accepted planar degree distance between
	// the query point and the resolved nearest cell. A value <= 0 disables
	// the check and restores the permissive legacy behavior.
	MaxCellDistanceDeg float64

	// AngleIndexOffset is the index-origin offset of the rotation-angle
	// dataset relative to the main dataset: theta for cell (i, j) is read
	// at (i+offset, j+offset).
	AngleIndexOffset int

	// FetchTimeout bounds each boundary call to a Source. Zero means no
	// timeout beyond the caller's context.
	FetchTimeout time.Duration

	// TimeUnits is the CF-style encoding of the dataset time axis.
	TimeUnits string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxCellDistanceDeg: 0.25,
		AngleIndexOffset:   1,
		FetchTimeout:       30 * time.Second,
		TimeUnits:          DefaultTimeUnits,
	}
}

// Result is the terminal success state of the pipeline.
type Result struct {
	Series domain.Series

	// Resolved parameters, reported so callers can audit the extraction.
	Cell     domain.Cell
	CellLat  float64
	CellLon  float64
	Window   domain.Window
	Mode     domain.Mode
	AngleRad float64
}

// Extractor runs the extraction pipeline against a main dataset and an
// angle dataset. Grid geometry is static, so metadata is fetched once and
// cached immutably; independent requests share no mutable state beyond
// that cache.
type Extractor struct {
	main  source.Source
	angle source.Source
	cfg   Config

	epoch time.Time
	unit  time.Duration

	mu   sync.RWMutex
	meta *domain.GridMetadata
}

// NewExtractor creates an Extractor. The config's TimeUnits must parse;
// use DefaultConfig as a starting point.
func NewExtractor(main, angle source.Source, cfg Config) (*Extractor, error) {
	if cfg.TimeUnits == "" {
		cfg.TimeUnits = DefaultTimeUnits
	}
	epoch, unit, err := ParseTimeUnits(cfg.TimeUnits)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		main:  main,
		angle: angle,
		cfg:   cfg,
		epoch: epoch,
		unit:  unit,
	}, nil
}

// Metadata returns the dataset geometry, loading it on first use.
func (e *Extractor) Metadata(ctx context.Context) (*domain.GridMetadata, error) {
	e.mu.RLock()
	meta := e.meta
	e.mu.RUnlock()
	if meta != nil {
		return meta, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.meta != nil {
		return e.meta, nil
	}

	meta, err := e.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}
	e.meta = meta
	return meta, nil
}

// Execute runs the pipeline for one request. The output is all-or-nothing:
// any failure, including cancellation, aborts with no partial result.
func (e *Extractor) Execute(ctx context.Context, req ExtractionRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	meta, err := e.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset metadata: %w", err)
	}

	// The three resolutions depend only on the request and the metadata.
	window, err := domain.ResolveWindow(meta.TimeAxis, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	cell, distance, err := domain.NearestCell(meta, req.Lat, req.Lon)
	if err != nil {
		return nil, err
	}
	if e.cfg.MaxCellDistanceDeg > 0 && distance > e.cfg.MaxCellDistanceDeg {
		return nil, &domain.SpatialDomainError{
			Lat: req.Lat, Lon: req.Lon,
			DistanceDeg: distance,
			MaxDeg:      e.cfg.MaxCellDistanceDeg,
		}
	}

	position, err := domain.ResolveDepth(meta.DepthLevels, req.DepthM)
	if err != nil {
		return nil, err
	}

	// Fetch exactly the needed sub-arrays.
	u, v, err := e.fetchVelocity(ctx, cell, position, window)
	if err != nil {
		return nil, err
	}

	theta, err := e.fetchAngle(ctx, cell)
	if err != nil {
		return nil, err
	}

	uGeo, vGeo := domain.Rotate(u, v, theta)

	series := make(domain.Series, window.Len())
	for t := range series {
		series[t] = domain.Sample{
			Time: meta.TimeAxis[window.Start+t],
			U:    uGeo[t],
			V:    vGeo[t],
		}
	}

	return &Result{
		Series:   series,
		Cell:     cell,
		CellLat:  meta.Lat[cell.I][cell.J],
		CellLon:  meta.Lon[cell.I][cell.J],
		Window:   window,
		Mode:     position.Mode,
		AngleRad: theta,
	}, nil
}

// fetchVelocity reads the grid-relative u/v slabs for one cell and blends
// vertical levels when the position is interpolated. Velocity variables
// are stored [time, depth, eta, xi].
func (e *Extractor) fetchVelocity(ctx context.Context, cell domain.Cell, position domain.Position, window domain.Window) ([]float64, []float64, error) {
	depthCount := uint64(1)
	if position.Mode == domain.Interpolated {
		depthCount = 2
	}
	n := window.Len()
	start := []uint64{uint64(window.Start), uint64(position.Lower), uint64(cell.I), uint64(cell.J)}
	count := []uint64{uint64(n), depthCount, 1, 1}

	fetch := func(name string) ([]float64, error) {
		fctx, cancel := e.fetchContext(ctx)
		defer cancel()
		slab, err := e.main.ReadSlice(fctx, name, start, count)
		if err != nil {
			return nil, err
		}
		if uint64(len(slab)) != uint64(n)*depthCount {
			return nil, &domain.DataSourceError{
				Op:  "read " + name,
				Err: fmt.Errorf("got %d values, want %d", len(slab), uint64(n)*depthCount),
			}
		}
		if position.Mode == domain.Surface {
			return slab, nil
		}
		// De-interleave the time-major slab into per-level series and
		// blend.
		lower := make([]float64, n)
		upper := make([]float64, n)
		for t := 0; t < n; t++ {
			lower[t] = slab[t*2]
			upper[t] = slab[t*2+1]
		}
		return domain.Blend(lower, upper, position.Fraction)
	}

	u, err := fetch("u")
	if err != nil {
		return nil, nil, err
	}
	v, err := fetch("v")
	if err != nil {
		return nil, nil, err
	}
	return u, v, nil
}

// fetchAngle reads the static rotation angle for a cell. The angle dataset
// uses a shifted index origin relative to the main dataset, hence the
// configured offset.
func (e *Extractor) fetchAngle(ctx context.Context, cell domain.Cell) (float64, error) {
	fctx, cancel := e.fetchContext(ctx)
	defer cancel()

	i := uint64(cell.I + e.cfg.AngleIndexOffset)
	j := uint64(cell.J + e.cfg.AngleIndexOffset)
	vals, err := e.angle.ReadSlice(fctx, "angle", []uint64{i, j}, []uint64{1, 1})
	if err != nil {
		return 0, err
	}
	if len(vals) != 1 {
		return 0, &domain.DataSourceError{
			Op:  "read angle",
			Err: fmt.Errorf("got %d values, want 1", len(vals)),
		}
	}
	return vals[0], nil
}

func (e *Extractor) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.FetchTimeout)
}

// loadMetadata reads the time axis, depth levels, and coordinate grids.
func (e *Extractor) loadMetadata(ctx context.Context) (*domain.GridMetadata, error) {
	fctx, cancel := e.fetchContext(ctx)
	defer cancel()

	rawTime, err := e.readAll1D(fctx, "time")
	if err != nil {
		return nil, err
	}
	depths, err := e.readAll1D(fctx, "depth")
	if err != nil {
		return nil, err
	}
	lat, err := e.readAll2D(fctx, "lat")
	if err != nil {
		return nil, err
	}
	lon, err := e.readAll2D(fctx, "lon")
	if err != nil {
		return nil, err
	}

	axis := make([]time.Time, len(rawTime))
	for i, val := range rawTime {
		axis[i] = e.epoch.Add(time.Duration(val * float64(e.unit)))
	}

	meta := &domain.GridMetadata{
		TimeAxis:    axis,
		DepthLevels: depths,
		Lat:         lat,
		Lon:         lon,
	}
	if err := meta.Validate(); err != nil {
		return nil, &domain.DataSourceError{Op: "load metadata", Err: err}
	}
	return meta, nil
}

func (e *Extractor) readAll1D(ctx context.Context, name string) ([]float64, error) {
	shape, err := e.main.VarShape(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(shape) != 1 {
		return nil, &domain.DataSourceError{
			Op:  "read " + name,
			Err: fmt.Errorf("expected 1-D variable, got %d-D", len(shape)),
		}
	}
	return e.main.ReadSlice(ctx, name, []uint64{0}, shape)
}

func (e *Extractor) readAll2D(ctx context.Context, name string) ([][]float64, error) {
	shape, err := e.main.VarShape(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 {
		return nil, &domain.DataSourceError{
			Op:  "read " + name,
			Err: fmt.Errorf("expected 2-D variable, got %d-D", len(shape)),
		}
	}
	flat, err := e.main.ReadSlice(ctx, name, []uint64{0, 0}, shape)
	if err != nil {
		return nil, err
	}
	rows := int(shape[0])
	cols := int(shape[1])
	values := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		values[i] = flat[i*cols : (i+1)*cols]
	}
	return values, nil
}
