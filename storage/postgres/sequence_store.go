package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantPactAPI/internal/sequence"
)

type SequenceStore struct {
	pool *pgxpool.Pool
}

var _ sequence.Store = (*SequenceStore)(nil)

// IncrementAndGet bumps the named counter atomically, creating it at 1 when
// absent. The upsert makes concurrent first allocations safe; a transiently
// empty result is reported as sequence.ErrNoResult so the allocator retries.
func (r *SequenceStore) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sequences (key, count) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET count = sequences.count + 1
		RETURNING count`, key).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, sequence.ErrNoResult
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
