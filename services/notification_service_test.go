package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/types/notification"
)

func TestStingRequiresChallenge(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)

	_, err := e.stingSvc.Sting(context.Background(), 1, "wake up")
	if !errors.Is(err, apperr.ErrNoChallengeToSting) {
		t.Errorf("err = %v, want ErrNoChallengeToSting", err)
	}
}

func TestStingDailyCap(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	e.createApproved(t, 1, e.now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := e.stingSvc.Sting(ctx, 1, "nudge"); err != nil {
			t.Fatalf("sting %d: %v", i+1, err)
		}
	}
	if _, err := e.stingSvc.Sting(ctx, 1, "one too many"); !errors.Is(err, apperr.ErrStingLimitExceeded) {
		t.Errorf("err = %v, want ErrStingLimitExceeded", err)
	}

	count, err := e.stingSvc.StingCountToday(ctx, 1)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}
}

func TestStingCountResetsNextDay(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	e.createApproved(t, 1, e.now)
	ctx := context.Background()

	if _, err := e.stingSvc.Sting(ctx, 1, "today"); err != nil {
		t.Fatalf("sting: %v", err)
	}

	e.advance(24 * time.Hour)
	count, err := e.stingSvc.StingCountToday(ctx, 1)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestStingRecordsTypeAndChallenge(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)

	n, err := e.stingSvc.Sting(context.Background(), 1, "go water the plant")
	if err != nil {
		t.Fatalf("sting: %v", err)
	}
	if n.Type != notification.TypeSting {
		t.Errorf("type = %s, want STING", n.Type)
	}
	if n.ChallengeNo != ch.ChallengeNo {
		t.Errorf("challengeNo = %d, want %d", n.ChallengeNo, ch.ChallengeNo)
	}
}
