package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/sequence"
	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/internal/types/commit"
	"plantPactAPI/services"
)

func TestCommitOncePerDay(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)
	ctx := context.Background()

	if _, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "first"}); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	_, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "second"})
	if !errors.Is(err, apperr.ErrAlreadyCommitted) {
		t.Errorf("same-day err = %v, want ErrAlreadyCommitted", err)
	}

	// Next day is allowed again.
	e.advance(24 * time.Hour)
	if _, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "tomorrow"}); err != nil {
		t.Errorf("next-day commit: %v", err)
	}
}

func TestCommitTallyTracksEachPartner(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)
	ctx := context.Background()

	for day := 0; day < 3; day++ {
		if _, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "u1"}); err != nil {
			t.Fatalf("u1 day %d: %v", day, err)
		}
		if day < 2 {
			if _, err := e.commitSvc.Create(ctx, 2, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "u2"}); err != nil {
				t.Fatalf("u2 day %d: %v", day, err)
			}
		}
		e.advance(24 * time.Hour)
	}

	got, err := e.challengeSvc.Find(ctx, ch.ChallengeNo)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.User1CommitCnt != 3 || got.User2CommitCnt != 2 {
		t.Errorf("tallies = %d/%d, want 3/2", got.User1CommitCnt, got.User2CommitCnt)
	}
}

func TestCommitOutsideWindowRejected(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ctx := context.Background()

	// Starts in five days.
	future := e.createApproved(t, 1, e.now.AddDate(0, 0, 5))
	if _, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: future.ChallengeNo, Text: "early"}); !errors.Is(err, apperr.ErrChallengeNotActive) {
		t.Errorf("before start err = %v, want ErrChallengeNotActive", err)
	}

	// Window closed a month ago.
	past := e.createApproved(t, 1, e.now.AddDate(0, 0, -60))
	if _, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: past.ChallengeNo, Text: "late"}); !errors.Is(err, apperr.ErrChallengeNotActive) {
		t.Errorf("after end err = %v, want ErrChallengeNotActive", err)
	}
}

func TestCommitOnUnapprovedChallengeRejected(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ctx := context.Background()

	ch, err := e.challengeSvc.Create(ctx, 1, challenge.CreateRequest{
		Name:        "not yet approved",
		User2Flower: challenge.FlowerCamellia,
		StartDate:   e.now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "too soon"}); !errors.Is(err, apperr.ErrChallengeNotActive) {
		t.Errorf("err = %v, want ErrChallengeNotActive", err)
	}
}

func TestCommitByOutsiderRejected(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	e.addUser(t, 3, "stranger", nil)
	ch := e.createApproved(t, 1, e.now)

	_, err := e.commitSvc.Create(context.Background(), 3, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "intrude"})
	if !errors.Is(err, apperr.ErrNotYourChallenge) {
		t.Errorf("err = %v, want ErrNotYourChallenge", err)
	}
}

func TestPartnerCommentSingleUse(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)
	ctx := context.Background()

	c, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "watered the plant"})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	updated, err := e.commitSvc.AddPartnerComment(ctx, 2, c.CommitNo, "proud of you")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if updated.PartnerComment != "proud of you" {
		t.Errorf("comment = %q", updated.PartnerComment)
	}

	if _, err := e.commitSvc.AddPartnerComment(ctx, 2, c.CommitNo, "again"); !errors.Is(err, apperr.ErrAlreadyPraised) {
		t.Errorf("second comment err = %v, want ErrAlreadyPraised", err)
	}
}

func TestPartnerCommentRequiresPartnership(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	e.addUser(t, 3, "stranger", nil)
	ch := e.createApproved(t, 1, e.now)
	ctx := context.Background()

	c, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "mine"})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	// A stranger cannot praise, and neither can the owner themselves.
	if _, err := e.commitSvc.AddPartnerComment(ctx, 3, c.CommitNo, "hi"); !errors.Is(err, apperr.ErrNotPartnerCommit) {
		t.Errorf("stranger err = %v, want ErrNotPartnerCommit", err)
	}
	if _, err := e.commitSvc.AddPartnerComment(ctx, 1, c.CommitNo, "self praise"); !errors.Is(err, apperr.ErrNotPartnerCommit) {
		t.Errorf("owner err = %v, want ErrNotPartnerCommit", err)
	}
}

func TestCommitOwnerOnlyRead(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)
	ctx := context.Background()

	c, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "private"})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	if _, err := e.commitSvc.Find(ctx, 2, c.CommitNo); !errors.Is(err, apperr.ErrNotOwnCommit) {
		t.Errorf("partner read err = %v, want ErrNotOwnCommit", err)
	}
	if _, err := e.commitSvc.Find(ctx, 1, c.CommitNo); err != nil {
		t.Errorf("owner read: %v", err)
	}
}

func TestFindTodayNilWhenAbsent(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)
	ctx := context.Background()

	c, err := e.commitSvc.FindToday(ctx, ch.ChallengeNo, 1)
	if err != nil {
		t.Fatalf("find today: %v", err)
	}
	if c != nil {
		t.Errorf("commit = %+v, want nil", c)
	}
}

// deleteOnTallyStore delegates to the real store but soft-deletes the
// challenge right before the tally update, modelling a delete landing
// between the active-window check and the counter write.
type deleteOnTallyStore struct {
	services.ChallengeStore
}

func (s deleteOnTallyStore) IncrementTally(ctx context.Context, challengeNo, userNo int64) (*challenge.Challenge, error) {
	if err := s.ChallengeStore.SoftDelete(ctx, challengeNo); err != nil {
		return nil, err
	}
	return s.ChallengeStore.IncrementTally(ctx, challengeNo, userNo)
}

func TestCommitRejectedWhenChallengeDeletedBeforeTally(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)

	svc := services.NewCommitService(e.store.Commits(),
		deleteOnTallyStore{e.store.Challenges()},
		e.store.Users(), sequence.New(e.store.Sequences()), time.UTC)
	svc.SetClock(func() time.Time { return e.now })

	_, err := svc.Create(context.Background(), 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "late"})
	if !errors.Is(err, apperr.ErrChallengeNotFound) {
		t.Errorf("err = %v, want ErrChallengeNotFound", err)
	}
}
