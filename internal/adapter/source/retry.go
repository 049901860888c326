package source

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"go.ngs.io/currents-api/internal/domain"
)

// Retrying wraps a Source with a bounded exponential-backoff retry policy
// for transient failures. Exhausted retries and cancellations surface as
// domain.DataSourceError, so callers see a single failure kind for the
// external boundary.
type Retrying struct {
	inner           Source
	maxRetries      uint64
	initialInterval time.Duration
}

// WithRetry wraps src so each read is attempted up to maxRetries+1 times.
// maxRetries = 0 disables retrying but keeps the error wrapping.
func WithRetry(src Source, maxRetries uint64, initialInterval time.Duration) *Retrying {
	if initialInterval <= 0 {
		initialInterval = 100 * time.Millisecond
	}
	return &Retrying{
		inner:           src,
		maxRetries:      maxRetries,
		initialInterval: initialInterval,
	}
}

// VarShape implements Source.
func (r *Retrying) VarShape(ctx context.Context, name string) ([]uint64, error) {
	var shape []uint64
	err := r.retry(ctx, func() error {
		var err error
		shape, err = r.inner.VarShape(ctx, name)
		return err
	})
	if err != nil {
		return nil, &domain.DataSourceError{Op: "shape of " + name, Err: err}
	}
	return shape, nil
}

// ReadSlice implements Source.
func (r *Retrying) ReadSlice(ctx context.Context, name string, start, count []uint64) ([]float64, error) {
	var data []float64
	err := r.retry(ctx, func() error {
		var err error
		data, err = r.inner.ReadSlice(ctx, name, start, count)
		return err
	})
	if err != nil {
		return nil, &domain.DataSourceError{Op: "read " + name, Err: err}
	}
	return data, nil
}

func (r *Retrying) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		// Cancellation is never transient.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(b, r.maxRetries), ctx))
}
