package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/services"
)

type ChallengeStore struct {
	pool *pgxpool.Pool
}

var _ services.ChallengeStore = (*ChallengeStore)(nil)

const challengeColumns = `challenge_no, name, description,
	user1_no, user1_nickname, user2_no, user2_nickname,
	start_date, end_date, user1_commit_cnt, user2_commit_cnt,
	user1_flower, user2_flower, is_approved, is_finished, is_deleted,
	created_at, updated_at`

func scanChallenge(row pgx.Row) (*challenge.Challenge, error) {
	var ch challenge.Challenge
	err := row.Scan(
		&ch.ChallengeNo, &ch.Name, &ch.Description,
		&ch.User1.UserNo, &ch.User1.Nickname, &ch.User2.UserNo, &ch.User2.Nickname,
		&ch.StartDate, &ch.EndDate, &ch.User1CommitCnt, &ch.User2CommitCnt,
		&ch.User1Flower, &ch.User2Flower, &ch.IsApproved, &ch.IsFinished, &ch.IsDeleted,
		&ch.CreatedAt, &ch.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ChallengeStore) queryList(ctx context.Context, query string, args ...any) ([]challenge.Challenge, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []challenge.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ch)
	}
	return out, rows.Err()
}

func (r *ChallengeStore) Insert(ctx context.Context, ch *challenge.Challenge) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		ch.ChallengeNo, ch.Name, ch.Description,
		ch.User1.UserNo, ch.User1.Nickname, ch.User2.UserNo, ch.User2.Nickname,
		ch.StartDate, ch.EndDate, ch.User1CommitCnt, ch.User2CommitCnt,
		ch.User1Flower, ch.User2Flower, ch.IsApproved, ch.IsFinished, ch.IsDeleted,
		ch.CreatedAt, ch.UpdatedAt,
	)
	return err
}

func (r *ChallengeStore) FindByNo(ctx context.Context, challengeNo int64) (*challenge.Challenge, error) {
	return scanChallenge(r.pool.QueryRow(ctx, `
		SELECT `+challengeColumns+` FROM challenges
		WHERE challenge_no = $1 AND NOT is_deleted`, challengeNo))
}

func (r *ChallengeStore) FindRecentByUser(ctx context.Context, userNo int64) (*challenge.Challenge, error) {
	return scanChallenge(r.pool.QueryRow(ctx, `
		SELECT `+challengeColumns+` FROM challenges
		WHERE (user1_no = $1 OR user2_no = $1) AND NOT is_deleted
		ORDER BY created_at DESC, challenge_no DESC
		LIMIT 1`, userNo))
}

func (r *ChallengeStore) FindByUser(ctx context.Context, userNo int64) ([]challenge.Challenge, error) {
	return r.queryList(ctx, `
		SELECT `+challengeColumns+` FROM challenges
		WHERE (user1_no = $1 OR user2_no = $1) AND NOT is_deleted
		ORDER BY created_at DESC, challenge_no DESC`, userNo)
}

func (r *ChallengeStore) FindPendingByCreator(ctx context.Context, creatorNo int64) (*challenge.Challenge, error) {
	return scanChallenge(r.pool.QueryRow(ctx, `
		SELECT `+challengeColumns+` FROM challenges
		WHERE user1_no = $1 AND NOT is_approved AND NOT is_deleted
		ORDER BY created_at DESC, challenge_no DESC
		LIMIT 1`, creatorNo))
}

func (r *ChallengeStore) FindFinishedByUser(ctx context.Context, userNo int64) ([]challenge.Challenge, error) {
	return r.queryList(ctx, `
		SELECT `+challengeColumns+` FROM challenges
		WHERE (user1_no = $1 OR user2_no = $1) AND is_finished AND NOT is_deleted
		ORDER BY created_at DESC, challenge_no DESC`, userNo)
}

func (r *ChallengeStore) FindOngoingByUser(ctx context.Context, userNo int64) ([]challenge.Challenge, error) {
	return r.queryList(ctx, `
		SELECT `+challengeColumns+` FROM challenges
		WHERE (user1_no = $1 OR user2_no = $1)
		  AND is_approved AND NOT is_finished AND NOT is_deleted
		ORDER BY created_at DESC, challenge_no DESC`, userNo)
}

func (r *ChallengeStore) CountApprovedByUser(ctx context.Context, userNo int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM challenges
		WHERE (user1_no = $1 OR user2_no = $1) AND is_approved AND NOT is_deleted`,
		userNo).Scan(&count)
	return count, err
}

func (r *ChallengeStore) Update(ctx context.Context, challengeNo int64, patch services.ChallengePatch) (*challenge.Challenge, error) {
	sets := []string{"updated_at = now()"}
	args := []any{challengeNo}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}

	return scanChallenge(r.pool.QueryRow(ctx, `
		UPDATE challenges SET `+strings.Join(sets, ", ")+`
		WHERE challenge_no = $1 AND NOT is_deleted
		RETURNING `+challengeColumns, args...))
}

func (r *ChallengeStore) SetApproved(ctx context.Context, challengeNo int64, user1Flower challenge.FlowerType) (*challenge.Challenge, error) {
	return scanChallenge(r.pool.QueryRow(ctx, `
		UPDATE challenges
		SET is_approved = TRUE, user1_flower = $2, updated_at = now()
		WHERE challenge_no = $1 AND NOT is_approved AND NOT is_deleted
		RETURNING `+challengeColumns, challengeNo, user1Flower))
}

func (r *ChallengeStore) SetFinished(ctx context.Context, challengeNo int64) (*challenge.Challenge, error) {
	return scanChallenge(r.pool.QueryRow(ctx, `
		UPDATE challenges
		SET is_finished = TRUE, updated_at = now()
		WHERE challenge_no = $1 AND NOT is_deleted
		RETURNING `+challengeColumns, challengeNo))
}

func (r *ChallengeStore) SoftDelete(ctx context.Context, challengeNo int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE challenges SET is_deleted = TRUE, updated_at = now()
		WHERE challenge_no = $1`, challengeNo)
	return err
}

func (r *ChallengeStore) SoftDeleteAllByUser(ctx context.Context, userNo int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE challenges SET is_deleted = TRUE, updated_at = now()
		WHERE user1_no = $1 OR user2_no = $1`, userNo)
	return err
}

// IncrementTally bumps exactly one tally slot in a single statement, so two
// partners committing at the same moment can never lose an increment.
func (r *ChallengeStore) IncrementTally(ctx context.Context, challengeNo, userNo int64) (*challenge.Challenge, error) {
	return scanChallenge(r.pool.QueryRow(ctx, `
		UPDATE challenges
		SET user1_commit_cnt = user1_commit_cnt + CASE WHEN user1_no = $2 THEN 1 ELSE 0 END,
		    user2_commit_cnt = user2_commit_cnt + CASE WHEN user2_no = $2 THEN 1 ELSE 0 END,
		    updated_at = now()
		WHERE challenge_no = $1 AND NOT is_deleted AND (user1_no = $2 OR user2_no = $2)
		RETURNING `+challengeColumns, challengeNo, userNo))
}

func (r *ChallengeStore) PropagateNickname(ctx context.Context, userNo int64, nickname string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE challenges
		SET user1_nickname = CASE WHEN user1_no = $1 THEN $2 ELSE user1_nickname END,
		    user2_nickname = CASE WHEN user2_no = $1 THEN $2 ELSE user2_nickname END,
		    updated_at = now()
		WHERE user1_no = $1 OR user2_no = $1`, userNo, nickname)
	return err
}
