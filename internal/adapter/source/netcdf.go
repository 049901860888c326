package source

import (
	"context"
	"fmt"
	"math"

	"github.com/fhs/go-netcdf/netcdf"
)

// varAliases maps the canonical variable names used by the pipeline to the
// names commonly found in circulation model output. The first name present
// in the file wins.
var varAliases = map[string][]string{
	"time":  {"time", "ocean_time", "t"},
	"depth": {"depth", "lev", "z"},
	"lat":   {"lat", "latitude", "y"},
	"lon":   {"lon", "longitude", "x"},
	"u":     {"u", "water_u", "uo"},
	"v":     {"v", "water_v", "vo"},
	"angle": {"angle", "grid_angle"},
}

// NetCDF is a file-backed Source. The file is opened per read, so a single
// NetCDF value is safe for concurrent use and works with network-mounted
// paths the same way as with local ones.
type NetCDF struct {
	path string
}

// NewNetCDF creates a Source reading from the NetCDF file at path.
func NewNetCDF(path string) *NetCDF {
	return &NetCDF{path: path}
}

// VarShape returns the dimension lengths of a named variable.
func (s *NetCDF) VarShape(ctx context.Context, name string) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := netcdf.OpenFile(s.path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer func() { _ = ds.Close() }()

	v, err := s.resolveVar(ds, name)
	if err != nil {
		return nil, err
	}

	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions of %q: %w", name, err)
	}
	shape := make([]uint64, len(dims))
	for i, d := range dims {
		length, err := d.Len()
		if err != nil {
			return nil, fmt.Errorf("failed to get length of dim %d of %q: %w", i, name, err)
		}
		shape[i] = length
	}
	return shape, nil
}

// ReadSlice reads a hyperslab of a named variable and promotes it to
// float64. Values equal to the variable's _FillValue or missing_value are
// replaced with NaN, and scale_factor is applied when present.
func (s *NetCDF) ReadSlice(ctx context.Context, name string, start, count []uint64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(start) != len(count) {
		return nil, fmt.Errorf("start has %d axes, count has %d", len(start), len(count))
	}
	ds, err := netcdf.OpenFile(s.path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer func() { _ = ds.Close() }()

	v, err := s.resolveVar(ds, name)
	if err != nil {
		return nil, err
	}

	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions of %q: %w", name, err)
	}
	if len(dims) != len(start) {
		return nil, fmt.Errorf("variable %q has %d axes, slice request has %d", name, len(dims), len(start))
	}

	total := uint64(1)
	for _, c := range count {
		total *= c
	}

	data, err := readSlab(v, start, count, int(total))
	if err != nil {
		return nil, fmt.Errorf("failed to read %q slab: %w", name, err)
	}

	if fill, ok := attrFloat(v, "_FillValue"); ok {
		maskFill(data, fill)
	} else if fill, ok := attrFloat(v, "missing_value"); ok {
		maskFill(data, fill)
	}
	if scale, ok := attrFloat(v, "scale_factor"); ok && scale != 0 {
		for i := range data {
			data[i] *= scale
		}
	}

	return data, nil
}

// resolveVar finds a variable by its canonical name, falling back to the
// alias list when the canonical name is absent.
func (s *NetCDF) resolveVar(ds netcdf.Dataset, name string) (netcdf.Var, error) {
	candidates := varAliases[name]
	if len(candidates) == 0 {
		candidates = []string{name}
	}
	for _, candidate := range candidates {
		if v, err := ds.Var(candidate); err == nil {
			return v, nil
		}
	}
	return netcdf.Var{}, fmt.Errorf("variable %q not found in %s (tried: %v)", name, s.path, candidates)
}

// readSlab reads a typed hyperslab and promotes it to float64.
func readSlab(v netcdf.Var, start, count []uint64, total int) ([]float64, error) {
	varType, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get variable type: %w", err)
	}

	switch varType {
	case netcdf.DOUBLE:
		data := make([]float64, total)
		if err := v.ReadFloat64Slice(data, start, count); err != nil {
			return nil, err
		}
		return data, nil
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32Slice(tmp, start, count); err != nil {
			return nil, err
		}
		data := make([]float64, total)
		for i, val := range tmp {
			data[i] = float64(val)
		}
		return data, nil
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32Slice(tmp, start, count); err != nil {
			return nil, err
		}
		data := make([]float64, total)
		for i, val := range tmp {
			data[i] = float64(val)
		}
		return data, nil
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16Slice(tmp, start, count); err != nil {
			return nil, err
		}
		data := make([]float64, total)
		for i, val := range tmp {
			data[i] = float64(val)
		}
		return data, nil
	case netcdf.BYTE, netcdf.UBYTE, netcdf.CHAR, netcdf.USHORT, netcdf.UINT, netcdf.INT64, netcdf.UINT64, netcdf.STRING:
		return nil, fmt.Errorf("unsupported variable type: %v (expected DOUBLE, FLOAT, INT, or SHORT)", varType)
	default:
		return nil, fmt.Errorf("unsupported variable type: %v", varType)
	}
}

// attrFloat reads a scalar numeric attribute as float64.
func attrFloat(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	n, err := a.Len()
	if err != nil || n == 0 {
		return 0, false
	}
	buf64 := make([]float64, 1)
	if err := a.ReadFloat64s(buf64); err == nil {
		return buf64[0], true
	}
	buf32 := make([]float32, 1)
	if err := a.ReadFloat32s(buf32); err == nil {
		return float64(buf32[0]), true
	}
	bufi := make([]int32, 1)
	if err := a.ReadInt32s(bufi); err == nil {
		return float64(bufi[0]), true
	}
	return 0, false
}

// maskFill replaces fill-valued samples with NaN so they cannot masquerade
// as real velocities downstream.
func maskFill(data []float64, fill float64) {
	for i := range data {
		if data[i] == fill {
			data[i] = math.NaN()
		}
	}
}
