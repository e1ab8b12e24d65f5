package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"plantPactAPI/internal/types/notification"
	"plantPactAPI/services"
)

type NotificationStore struct {
	pool *pgxpool.Pool
}

var _ services.NotificationStore = (*NotificationStore)(nil)

func (r *NotificationStore) Insert(ctx context.Context, n *notification.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_no, challenge_no, message, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserNo, n.ChallengeNo, n.Message, n.Type, n.CreatedAt,
	)
	return err
}

func (r *NotificationStore) CountInWindow(ctx context.Context, userNo, challengeNo int64, from, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE user_no = $1 AND challenge_no = $2
		  AND created_at BETWEEN $3 AND $4`,
		userNo, challengeNo, from, to).Scan(&count)
	return count, err
}
