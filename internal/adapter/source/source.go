// Package source defines the sub-array slicing contract the extraction
// pipeline requires from a gridded dataset, and adapters satisfying it.
package source

import "context"

// Source exposes read access to named array variables with support for
// sub-array slicing by per-axis offset and count. This is the single
// capability the extraction core needs from a dataset; it is satisfied by
// file-backed, network-backed, or in-memory adapters.
//
// For the 4-D velocity variables the axis order is [time, depth, eta, xi],
// and ReadSlice returns the slab flattened in row-major (time outermost)
// order.
type Source interface {
	// VarShape returns the per-axis lengths of a named variable.
	VarShape(ctx context.Context, name string) ([]uint64, error)

	// ReadSlice reads count[k] elements starting at start[k] along each
	// axis k of the named variable, returned as a flat row-major slice of
	// length prod(count).
	ReadSlice(ctx context.Context, name string, start, count []uint64) ([]float64, error)
}
