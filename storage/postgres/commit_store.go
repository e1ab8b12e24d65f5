package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/types/commit"
	"plantPactAPI/services"
	"plantPactAPI/utils"
)

type CommitStore struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

var _ services.CommitStore = (*CommitStore)(nil)

// WithLocation sets the day-boundary location used to derive day_key.
func (r *CommitStore) WithLocation(loc *time.Location) *CommitStore {
	r.loc = loc
	return r
}

func (r *CommitStore) location() *time.Location {
	if r.loc == nil {
		return time.UTC
	}
	return r.loc
}

const commitColumns = `commit_no, challenge_no, user_no, text, photo_url,
	partner_comment, is_deleted, created_at, updated_at`

func scanCommit(row pgx.Row) (*commit.Commit, error) {
	var c commit.Commit
	err := row.Scan(
		&c.CommitNo, &c.ChallengeNo, &c.UserNo, &c.Text, &c.PhotoURL,
		&c.PartnerComment, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const uniqueViolation = "23505"

// Insert writes the commit with its day key. The partial unique index on
// (challenge_no, user_no, day_key) is the arbiter of the once-per-day rule;
// a violation surfaces as the already-committed conflict.
func (r *CommitStore) Insert(ctx context.Context, c *commit.Commit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO commits (`+commitColumns+`, day_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.CommitNo, c.ChallengeNo, c.UserNo, c.Text, c.PhotoURL,
		c.PartnerComment, c.IsDeleted, c.CreatedAt, c.UpdatedAt,
		utils.DayKey(c.CreatedAt, r.location()),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.ErrAlreadyCommitted
	}
	return err
}

func (r *CommitStore) FindByNo(ctx context.Context, commitNo int64) (*commit.Commit, error) {
	return scanCommit(r.pool.QueryRow(ctx, `
		SELECT `+commitColumns+` FROM commits
		WHERE commit_no = $1 AND NOT is_deleted`, commitNo))
}

func (r *CommitStore) FindInWindow(ctx context.Context, challengeNo, userNo int64, from, to time.Time) (*commit.Commit, error) {
	return scanCommit(r.pool.QueryRow(ctx, `
		SELECT `+commitColumns+` FROM commits
		WHERE challenge_no = $1 AND user_no = $2 AND NOT is_deleted
		  AND created_at BETWEEN $3 AND $4
		LIMIT 1`, challengeNo, userNo, from, to))
}

func (r *CommitStore) queryList(ctx context.Context, query string, args ...any) ([]commit.Commit, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []commit.Commit
	for rows.Next() {
		c, err := scanCommit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CommitStore) List(ctx context.Context, challengeNo, userNo int64) ([]commit.Commit, error) {
	return r.queryList(ctx, `
		SELECT `+commitColumns+` FROM commits
		WHERE challenge_no = $1 AND user_no = $2 AND NOT is_deleted
		ORDER BY created_at ASC`, challengeNo, userNo)
}

func (r *CommitStore) ListRecent(ctx context.Context, challengeNo, userNo int64) ([]commit.Commit, error) {
	return r.queryList(ctx, `
		SELECT `+commitColumns+` FROM commits
		WHERE challenge_no = $1 AND user_no = $2 AND NOT is_deleted
		ORDER BY created_at DESC`, challengeNo, userNo)
}

func (r *CommitStore) SetPartnerComment(ctx context.Context, commitNo int64, comment string) (*commit.Commit, error) {
	return scanCommit(r.pool.QueryRow(ctx, `
		UPDATE commits
		SET partner_comment = $2, updated_at = now()
		WHERE commit_no = $1 AND partner_comment = '' AND NOT is_deleted
		RETURNING `+commitColumns, commitNo, comment))
}

func (r *CommitStore) SoftDelete(ctx context.Context, commitNo int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE commits SET is_deleted = TRUE, updated_at = now()
		WHERE commit_no = $1`, commitNo)
	return err
}

func (r *CommitStore) SoftDeleteByChallenge(ctx context.Context, challengeNo int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE commits SET is_deleted = TRUE, updated_at = now()
		WHERE challenge_no = $1`, challengeNo)
	return err
}
