package sequence

import (
	"context"
	"errors"
	"time"

	"plantPactAPI/internal/apperr"
)

// Store is the single atomic primitive the allocator needs: increment the
// named counter (creating it at 1 when absent) and return the new value.
type Store interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
}

// ErrNoResult marks a transient empty response from the store. The allocator
// retries it; any other error is surfaced immediately.
var ErrNoResult = errors.New("sequence: no result")

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 20 * time.Millisecond
)

// Allocator issues gap-free, strictly increasing ids per named counter.
// Safe for concurrent callers as long as the store's IncrementAndGet is
// atomic.
type Allocator struct {
	store       Store
	maxAttempts int
	backoff     time.Duration
}

func New(store Store) *Allocator {
	return &Allocator{
		store:       store,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
}

// Next returns the next value for key, starting at 1. Transient empty
// responses are retried with exponential backoff up to the attempt cap, then
// reported as a fatal error; the success path never duplicates or skips a
// value.
func (a *Allocator) Next(ctx context.Context, key string) (int64, error) {
	backoff := a.backoff

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		n, err := a.store.IncrementAndGet(ctx, key)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, ErrNoResult) {
			return 0, apperr.Fatal("SEQUENCE_ALLOC_FAILED", "failed to allocate "+key, err)
		}
		if attempt == a.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return 0, apperr.Fatal("SEQUENCE_ALLOC_FAILED", "failed to allocate "+key, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return 0, apperr.Fatal("SEQUENCE_ALLOC_EXHAUSTED", "sequence store kept returning no result for "+key, ErrNoResult)
}
