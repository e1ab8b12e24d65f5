package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/types/notification"
	"plantPactAPI/utils"
)

type NotificationService struct {
	notifications NotificationStore
	challenges    ChallengeStore
	users         UserStore
	push          PushProvider
	loc           *time.Location
	now           func() time.Time

	stingsPerDay int
	mu           sync.Mutex
	limiters     map[int64]*rate.Limiter
}

func NewNotificationService(notifications NotificationStore, challenges ChallengeStore, users UserStore, push PushProvider, loc *time.Location, stingsPerDay int) *NotificationService {
	if stingsPerDay <= 0 {
		stingsPerDay = 5
	}
	return &NotificationService{
		notifications: notifications,
		challenges:    challenges,
		users:         users,
		push:          push,
		loc:           loc,
		now:           time.Now,
		stingsPerDay:  stingsPerDay,
		limiters:      make(map[int64]*rate.Limiter),
	}
}

func (s *NotificationService) limiterFor(userNo int64) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[userNo]
	if !ok {
		l = rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(s.stingsPerDay)), s.stingsPerDay)
		s.limiters[userNo] = l
	}
	return l
}

// Sting nudges the caller's partner about their most recent challenge. Capped
// per user per day; the persisted row is what the home view counts, the push
// is best effort.
func (s *NotificationService) Sting(ctx context.Context, userNo int64, message string) (*notification.Notification, error) {
	u, err := s.users.FindByNo(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up user", err)
	}
	if u == nil {
		return nil, apperr.ErrUserNotFound
	}
	if u.PartnerNo == nil {
		return nil, apperr.ErrPartnerNotMatched
	}

	recent, err := s.challenges.FindRecentByUser(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to look up recent challenge", err)
	}
	if recent == nil {
		return nil, apperr.ErrNoChallengeToSting
	}

	now := s.now()
	count, err := s.notifications.CountInWindow(ctx, userNo, recent.ChallengeNo,
		utils.StartOfDay(now, s.loc), utils.EndOfDay(now, s.loc))
	if err != nil {
		return nil, apperr.Fatal("NOTIFICATION_LOOKUP_FAILED", "failed to count stings", err)
	}
	if count >= s.stingsPerDay || !s.limiterFor(userNo).Allow() {
		return nil, apperr.ErrStingLimitExceeded
	}

	n := &notification.Notification{
		ID:          uuid.New(),
		UserNo:      userNo,
		ChallengeNo: recent.ChallengeNo,
		Message:     message,
		Type:        notification.TypeSting,
		CreatedAt:   now,
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		return nil, apperr.Fatal("NOTIFICATION_CREATE_FAILED", "failed to create sting", err)
	}

	partner, err := s.users.FindByNo(ctx, *u.PartnerNo)
	if err == nil && partner != nil {
		s.SendPush(ctx, notification.Push{
			DeviceToken: partner.DeviceToken,
			Nickname:    u.NicknameOrEmpty(),
			Message:     message,
			Type:        notification.TypeSting,
		})
	}

	utils.Log.Infow("created sting", "userNo", userNo, "challengeNo", recent.ChallengeNo)
	return n, nil
}

// StingCountToday returns how many stings the user has sent today against
// their most recent challenge.
func (s *NotificationService) StingCountToday(ctx context.Context, userNo int64) (int, error) {
	recent, err := s.challenges.FindRecentByUser(ctx, userNo)
	if err != nil {
		return 0, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to look up recent challenge", err)
	}
	if recent == nil {
		return 0, nil
	}

	now := s.now()
	count, err := s.notifications.CountInWindow(ctx, userNo, recent.ChallengeNo,
		utils.StartOfDay(now, s.loc), utils.EndOfDay(now, s.loc))
	if err != nil {
		return 0, apperr.Fatal("NOTIFICATION_LOOKUP_FAILED", "failed to count stings", err)
	}
	return count, nil
}

// SendPush hands a push to the provider. Failures are logged and swallowed;
// a missed push never fails the operation that triggered it.
func (s *NotificationService) SendPush(ctx context.Context, push notification.Push) {
	if s.push == nil || push.DeviceToken == "" {
		return
	}
	if err := s.push.SendPush(ctx, push); err != nil {
		utils.Log.Warnw("push delivery failed", "type", push.Type, "error", err)
	}
}

// NotifyPartner looks up the partner's device token and pushes to it.
func (s *NotificationService) NotifyPartner(ctx context.Context, userNo int64, message string, typ notification.Type) {
	u, err := s.users.FindByNo(ctx, userNo)
	if err != nil || u == nil || u.PartnerNo == nil {
		return
	}
	partner, err := s.users.FindByNo(ctx, *u.PartnerNo)
	if err != nil || partner == nil {
		return
	}
	s.SendPush(ctx, notification.Push{
		DeviceToken: partner.DeviceToken,
		Nickname:    u.NicknameOrEmpty(),
		Message:     message,
		Type:        typ,
	})
}
