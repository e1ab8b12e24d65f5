package memory

import (
	"context"
	"time"

	"plantPactAPI/internal/types/notification"
	"plantPactAPI/services"
)

type NotificationStore struct{ s *Store }

var _ services.NotificationStore = (*NotificationStore)(nil)

func (r *NotificationStore) Insert(_ context.Context, n *notification.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *NotificationStore) CountInWindow(_ context.Context, userNo, challengeNo int64, from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, n := range r.s.notifications {
		if n.UserNo != userNo || n.ChallengeNo != challengeNo {
			continue
		}
		if !n.CreatedAt.Before(from) && !n.CreatedAt.After(to) {
			count++
		}
	}
	return count, nil
}
