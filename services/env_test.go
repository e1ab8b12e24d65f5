package services_test

import (
	"context"
	"testing"
	"time"

	"plantPactAPI/internal/sequence"
	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/internal/types/user"
	"plantPactAPI/services"
	"plantPactAPI/storage/memory"
)

// env wires every service against the in-memory backend with a frozen clock.
type env struct {
	store        *memory.Store
	challengeSvc *services.ChallengeService
	commitSvc    *services.CommitService
	userSvc      *services.UserService
	viewSvc      *services.ViewService
	stingSvc     *services.NotificationService
	now          time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.New(time.UTC)
	seq := sequence.New(store.Sequences())

	e := &env{
		store: store,
		now:   time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return e.now }

	e.challengeSvc = services.NewChallengeService(store.Challenges(), store.Commits(), store.Users(), seq, time.UTC)
	e.challengeSvc.SetClock(clock)
	e.commitSvc = services.NewCommitService(store.Commits(), store.Challenges(), store.Users(), seq, time.UTC)
	e.commitSvc.SetClock(clock)
	e.userSvc = services.NewUserService(store.Users(), e.challengeSvc, seq, "test-secret")
	e.userSvc.SetClock(clock)
	e.viewSvc = services.NewViewService(store.Challenges(), store.Commits(), store.Users(), store.Notifications(), time.UTC)
	e.viewSvc.SetClock(clock)
	e.stingSvc = services.NewNotificationService(store.Notifications(), store.Challenges(), store.Users(), nil, time.UTC, 5)
	e.stingSvc.SetClock(clock)

	return e
}

func (e *env) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// addUser inserts a user directly into the backing store.
func (e *env) addUser(t *testing.T, userNo int64, nickname string, partnerNo *int64) *user.User {
	t.Helper()
	u := &user.User{
		UserNo:    userNo,
		SocialID:  "social-" + nickname,
		LoginType: user.LoginKakao,
		Nickname:  &nickname,
		PartnerNo: partnerNo,
		CreatedAt: e.now,
		UpdatedAt: e.now,
	}
	if err := e.store.Users().Insert(context.Background(), u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return u
}

// addPair inserts two mutually matched users.
func (e *env) addPair(t *testing.T, no1, no2 int64) (*user.User, *user.User) {
	t.Helper()
	u1 := e.addUser(t, no1, "mina", &no2)
	u2 := e.addUser(t, no2, "juno", &no1)
	return u1, u2
}

// createApproved creates a challenge from creatorNo and approves it.
func (e *env) createApproved(t *testing.T, creatorNo int64, start time.Time) *challenge.Challenge {
	t.Helper()
	ch, err := e.challengeSvc.Create(context.Background(), creatorNo, challenge.CreateRequest{
		Name:        "morning stretch",
		User2Flower: challenge.FlowerTulip,
		StartDate:   start,
	})
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	approved, err := e.challengeSvc.Approve(context.Background(), ch.ChallengeNo, challenge.FlowerRose)
	if err != nil {
		t.Fatalf("approve challenge: %v", err)
	}
	return approved
}
