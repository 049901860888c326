package source

import (
	"context"
	"fmt"
)

// Memory is a deterministic in-memory Source used as a test double for the
// remote dataset. Variables are stored as flat row-major arrays with an
// explicit shape.
type Memory struct {
	vars map[string]memoryVar
}

type memoryVar struct {
	shape []uint64
	data  []float64
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{vars: make(map[string]memoryVar)}
}

// Put stores a variable. The data length must equal the product of the
// shape.
func (m *Memory) Put(name string, shape []uint64, data []float64) error {
	total := uint64(1)
	for _, s := range shape {
		total *= s
	}
	if uint64(len(data)) != total {
		return fmt.Errorf("variable %q: shape %v needs %d values, got %d", name, shape, total, len(data))
	}
	m.vars[name] = memoryVar{shape: append([]uint64(nil), shape...), data: data}
	return nil
}

// VarShape implements Source.
func (m *Memory) VarShape(ctx context.Context, name string) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := m.vars[name]
	if !ok {
		return nil, fmt.Errorf("variable %q not found", name)
	}
	return append([]uint64(nil), v.shape...), nil
}

// ReadSlice implements Source.
func (m *Memory) ReadSlice(ctx context.Context, name string, start, count []uint64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := m.vars[name]
	if !ok {
		return nil, fmt.Errorf("variable %q not found", name)
	}
	if len(start) != len(v.shape) || len(count) != len(v.shape) {
		return nil, fmt.Errorf("variable %q has %d axes, slice request has %d/%d", name, len(v.shape), len(start), len(count))
	}
	total := uint64(1)
	for k := range v.shape {
		if count[k] == 0 || start[k]+count[k] > v.shape[k] {
			return nil, fmt.Errorf("variable %q: slice [%d, %d) exceeds axis %d length %d", name, start[k], start[k]+count[k], k, v.shape[k])
		}
		total *= count[k]
	}

	// Row-major strides.
	strides := make([]uint64, len(v.shape))
	stride := uint64(1)
	for k := len(v.shape) - 1; k >= 0; k-- {
		strides[k] = stride
		stride *= v.shape[k]
	}

	out := make([]float64, 0, total)
	idx := make([]uint64, len(count))
	for {
		offset := uint64(0)
		for k := range idx {
			offset += (start[k] + idx[k]) * strides[k]
		}
		out = append(out, v.data[offset])

		// Advance the multi-index, innermost axis fastest.
		k := len(idx) - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < count[k] {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			break
		}
	}
	return out, nil
}
