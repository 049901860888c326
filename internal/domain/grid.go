package domain

import (
	"fmt"
	"math"
)

// Cell identifies a grid cell by its (i, j) indices into the coordinate
// arrays of a curvilinear grid.
type Cell struct {
	I int
	J int
}

// NearestCell returns the grid cell whose stored (lat, lon) minimizes the
// planar degree-space distance to the query point, together with that
// distance in degrees.
//
// The distance is (lat-qlat)^2 + (lon-qlon)^2 in degrees, not a geodesic
// distance; with ~800 m grid spacing the resulting position error is on
// the order of half a cell. The scan runs in row-major order (i outer,
// j inner) and keeps the first strictly smaller distance, so ties resolve
// to the first minimal cell in row-major order.
//
// No domain membership check happens here: a query far outside the grid
// still resolves to some boundary cell. Callers enforce an acceptance
// threshold on the returned distance.
func NearestCell(meta *GridMetadata, qlat, qlon float64) (Cell, float64, error) {
	if len(meta.Lat) == 0 || len(meta.Lat[0]) == 0 {
		return Cell{}, 0, fmt.Errorf("coordinate grids are empty")
	}

	best := math.Inf(1)
	var cell Cell
	for i := range meta.Lat {
		if len(meta.Lat[i]) != len(meta.Lon[i]) {
			return Cell{}, 0, fmt.Errorf("lat/lon grids disagree at row %d", i)
		}
		for j := range meta.Lat[i] {
			dlat := meta.Lat[i][j] - qlat
			dlon := meta.Lon[i][j] - qlon
			d := dlat*dlat + dlon*dlon
			if d < best {
				best = d
				cell = Cell{I: i, J: j}
			}
		}
	}

	return cell, math.Sqrt(best), nil
}
