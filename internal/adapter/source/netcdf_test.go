package source

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/fhs/go-netcdf/netcdf"
)

// createVelocityNC writes a minimal circulation-model file: time(3),
// depth(2), a 2x2 grid, and a 4-D u variable whose value is its flat
// index.
func createVelocityNC(t *testing.T, path string) {
	t.Helper()
	f, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		t.Fatalf("create nc: %v", err)
	}
	defer f.Close()

	timeDim, _ := f.AddDim("time", 3)
	depthDim, _ := f.AddDim("depth", 2)
	etaDim, _ := f.AddDim("eta", 2)
	xiDim, _ := f.AddDim("xi", 2)

	vtime, _ := f.AddVar("time", netcdf.DOUBLE, []netcdf.Dim{timeDim})
	vdepth, _ := f.AddVar("depth", netcdf.DOUBLE, []netcdf.Dim{depthDim})
	// Stored under an alias name to exercise the fallback.
	vlat, _ := f.AddVar("latitude", netcdf.DOUBLE, []netcdf.Dim{etaDim, xiDim})
	vlon, _ := f.AddVar("longitude", netcdf.DOUBLE, []netcdf.Dim{etaDim, xiDim})
	vu, _ := f.AddVar("u", netcdf.FLOAT, []netcdf.Dim{timeDim, depthDim, etaDim, xiDim})

	if err := f.EndDef(); err != nil {
		t.Fatalf("enddef: %v", err)
	}

	if err := vtime.WriteFloat64s([]float64{0, 3600, 7200}); err != nil {
		t.Fatalf("write time: %v", err)
	}
	if err := vdepth.WriteFloat64s([]float64{0, 3}); err != nil {
		t.Fatalf("write depth: %v", err)
	}
	if err := vlat.WriteFloat64s([]float64{60.00, 60.00, 60.01, 60.01}); err != nil {
		t.Fatalf("write lat: %v", err)
	}
	if err := vlon.WriteFloat64s([]float64{5.00, 5.01, 5.00, 5.01}); err != nil {
		t.Fatalf("write lon: %v", err)
	}

	u := make([]float32, 3*2*2*2)
	for i := range u {
		u[i] = float32(i)
	}
	if err := vu.WriteFloat32s(u); err != nil {
		t.Fatalf("write u: %v", err)
	}
}

func TestNetCDF_VarShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.nc")
	createVelocityNC(t, path)
	src := NewNetCDF(path)

	shape, err := src.VarShape(context.Background(), "u")
	if err != nil {
		t.Fatalf("VarShape: %v", err)
	}
	want := []uint64{3, 2, 2, 2}
	if len(shape) != len(want) {
		t.Fatalf("Expected %d axes, got %d", len(want), len(shape))
	}
	for i := range want {
		if shape[i] != want[i] {
			t.Errorf("Axis %d: expected %d, got %d", i, want[i], shape[i])
		}
	}
}

func TestNetCDF_ReadSlice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.nc")
	createVelocityNC(t, path)
	src := NewNetCDF(path)

	// Two time steps, both levels, cell (0, 1): flat offsets
	// ((t*2+d)*2+0)*2+1.
	got, err := src.ReadSlice(context.Background(), "u", []uint64{1, 0, 0, 1}, []uint64{2, 2, 1, 1})
	if err != nil {
		t.Fatalf("ReadSlice: %v", err)
	}
	want := []float64{9, 13, 17, 21}
	if len(got) != len(want) {
		t.Fatalf("Expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Value %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestNetCDF_AliasResolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.nc")
	createVelocityNC(t, path)
	src := NewNetCDF(path)

	// The file stores "latitude"; the canonical name must still resolve.
	lat, err := src.ReadSlice(context.Background(), "lat", []uint64{0, 0}, []uint64{2, 2})
	if err != nil {
		t.Fatalf("ReadSlice lat: %v", err)
	}
	if len(lat) != 4 || math.Abs(lat[3]-60.01) > 1e-12 {
		t.Errorf("Expected lat[3] = 60.01, got %v", lat)
	}
}

func TestNetCDF_MissingVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.nc")
	createVelocityNC(t, path)
	src := NewNetCDF(path)

	if _, err := src.VarShape(context.Background(), "angle"); err == nil {
		t.Error("Expected error for missing variable, got nil")
	}
}

func TestNetCDF_MissingFile(t *testing.T) {
	src := NewNetCDF(filepath.Join(t.TempDir(), "absent.nc"))
	if _, err := src.ReadSlice(context.Background(), "u", []uint64{0}, []uint64{1}); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
