// Package postgres implements the persistence contracts on pgx. All guard
// semantics live in the SQL itself: conditional UPDATE ... RETURNING for
// guarded writes and a partial unique index for the one-commit-per-day rule.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Challenges() *ChallengeStore       { return &ChallengeStore{pool: s.pool} }
func (s *Store) Commits() *CommitStore             { return &CommitStore{pool: s.pool} }
func (s *Store) Users() *UserStore                 { return &UserStore{pool: s.pool} }
func (s *Store) Notifications() *NotificationStore { return &NotificationStore{pool: s.pool} }
func (s *Store) Sequences() *SequenceStore         { return &SequenceStore{pool: s.pool} }

// Migrate creates the schema. day_key is written by the application in the
// day-boundary timezone, so the partial unique index and the service layer
// agree on what "the same day" means.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_no      BIGINT PRIMARY KEY,
			social_id    TEXT NOT NULL,
			login_type   TEXT NOT NULL,
			nickname     TEXT,
			partner_no   BIGINT,
			device_token TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_social_identity
			ON users (social_id, login_type)`,
		`CREATE TABLE IF NOT EXISTS challenges (
			challenge_no     BIGINT PRIMARY KEY,
			name             TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			user1_no         BIGINT NOT NULL,
			user1_nickname   TEXT NOT NULL DEFAULT '',
			user2_no         BIGINT NOT NULL,
			user2_nickname   TEXT NOT NULL DEFAULT '',
			start_date       TIMESTAMPTZ NOT NULL,
			end_date         TIMESTAMPTZ NOT NULL,
			user1_commit_cnt INT NOT NULL DEFAULT 0,
			user2_commit_cnt INT NOT NULL DEFAULT 0,
			user1_flower     TEXT NOT NULL DEFAULT '',
			user2_flower     TEXT NOT NULL DEFAULT '',
			is_approved      BOOLEAN NOT NULL DEFAULT FALSE,
			is_finished      BOOLEAN NOT NULL DEFAULT FALSE,
			is_deleted       BOOLEAN NOT NULL DEFAULT FALSE,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS commits (
			commit_no       BIGINT PRIMARY KEY,
			challenge_no    BIGINT NOT NULL REFERENCES challenges (challenge_no),
			user_no         BIGINT NOT NULL,
			text            TEXT NOT NULL DEFAULT '',
			photo_url       TEXT NOT NULL DEFAULT '',
			partner_comment TEXT NOT NULL DEFAULT '',
			is_deleted      BOOLEAN NOT NULL DEFAULT FALSE,
			day_key         TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS commits_one_per_day
			ON commits (challenge_no, user_no, day_key)
			WHERE NOT is_deleted`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id           UUID PRIMARY KEY,
			user_no      BIGINT NOT NULL,
			challenge_no BIGINT NOT NULL,
			message      TEXT NOT NULL,
			type         TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS notifications_sting_window
			ON notifications (user_no, challenge_no, created_at)`,
		`CREATE TABLE IF NOT EXISTS sequences (
			key   TEXT PRIMARY KEY,
			count BIGINT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
