package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/internal/types/commit"
	"plantPactAPI/internal/types/view"
	"plantPactAPI/services"
)

func TestDeriveViewState(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	base := func() *challenge.Challenge {
		start := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
		return &challenge.Challenge{
			ChallengeNo: 7,
			User1:       challenge.Participant{UserNo: 1},
			User2:       challenge.Participant{UserNo: 2},
			StartDate:   start,
			EndDate:     time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		}
	}

	tests := []struct {
		name     string
		mutate   func(*challenge.Challenge) *challenge.Challenge
		viewerNo int64
		want     view.HomeState
	}{
		{
			name:   "nil challenge",
			mutate: func(*challenge.Challenge) *challenge.Challenge { return nil },
			want:   view.BeforeCreate,
		},
		{
			name: "finished",
			mutate: func(ch *challenge.Challenge) *challenge.Challenge {
				ch.IsApproved = true
				ch.IsFinished = true
				return ch
			},
			want: view.BeforeCreate,
		},
		{
			name: "unapproved past its start day",
			mutate: func(ch *challenge.Challenge) *challenge.Challenge {
				return ch
			},
			viewerNo: 1,
			want:     view.ExpiredByNotApproved,
		},
		{
			name: "creator waits for partner",
			mutate: func(ch *challenge.Challenge) *challenge.Challenge {
				ch.StartDate = now.AddDate(0, 0, 1)
				return ch
			},
			viewerNo: 1,
			want:     view.BeforePartnerApprove,
		},
		{
			name: "acceptor must approve",
			mutate: func(ch *challenge.Challenge) *challenge.Challenge {
				ch.StartDate = now.AddDate(0, 0, 1)
				return ch
			},
			viewerNo: 2,
			want:     view.BeforeMyApprove,
		},
		{
			name: "approved before start date",
			mutate: func(ch *challenge.Challenge) *challenge.Challenge {
				ch.IsApproved = true
				ch.StartDate = now.AddDate(0, 0, 2)
				return ch
			},
			viewerNo: 1,
			want:     view.ApprovedButBeforeStartDate,
		},
		{
			name: "in progress",
			mutate: func(ch *challenge.Challenge) *challenge.Challenge {
				ch.IsApproved = true
				return ch
			},
			viewerNo: 1,
			want:     view.InProgress,
		},
		{
			name: "window elapsed",
			mutate: func(ch *challenge.Challenge) *challenge.Challenge {
				ch.IsApproved = true
				ch.StartDate = now.AddDate(0, 0, -40)
				ch.EndDate = now.AddDate(0, 0, -19)
				return ch
			},
			viewerNo: 1,
			want:     view.Complete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.DeriveViewState(tt.mutate(base()), tt.viewerNo, now, time.UTC)
			if got != tt.want {
				t.Errorf("state = %s, want %s", got, tt.want)
			}
		})
	}
}

// The same challenge at the same instant gives each partner their own
// pending-approval state.
func TestDeriveViewStatePerViewer(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	ch := &challenge.Challenge{
		User1:     challenge.Participant{UserNo: 1},
		User2:     challenge.Participant{UserNo: 2},
		StartDate: now.AddDate(0, 0, 3),
	}

	if got := services.DeriveViewState(ch, 1, now, time.UTC); got != view.BeforePartnerApprove {
		t.Errorf("creator state = %s, want BEFORE_PARTNER_APPROVE", got)
	}
	if got := services.DeriveViewState(ch, 2, now, time.UTC); got != view.BeforeMyApprove {
		t.Errorf("acceptor state = %s, want BEFORE_MY_APPROVE", got)
	}
}

func TestHomeAggregatesBothSides(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)
	ctx := context.Background()

	if _, err := e.commitSvc.Create(ctx, 1, commit.CreateRequest{ChallengeNo: ch.ChallengeNo, Text: "mine"}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	home, err := e.viewSvc.Home(ctx, 1)
	if err != nil {
		t.Fatalf("home: %v", err)
	}

	if home.ViewState != view.InProgress {
		t.Errorf("view state = %s, want IN_PROGRESS", home.ViewState)
	}
	if home.ChallengeTotal != 1 {
		t.Errorf("challenge total = %d, want 1", home.ChallengeTotal)
	}
	if home.MyCommit == nil || home.MyCommit.Text != "mine" {
		t.Errorf("my commit = %+v, want today's commit", home.MyCommit)
	}
	if home.PartnerCommit != nil {
		t.Errorf("partner commit = %+v, want nil", home.PartnerCommit)
	}
	if home.MyInfo.UserNo != 1 || home.PartnerInfo.UserNo != 2 {
		t.Errorf("profiles = %d/%d, want 1/2", home.MyInfo.UserNo, home.PartnerInfo.UserNo)
	}
}

func TestHomeWithoutChallenge(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)

	home, err := e.viewSvc.Home(context.Background(), 1)
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if home.ViewState != view.BeforeCreate {
		t.Errorf("view state = %s, want BEFORE_CREATE", home.ViewState)
	}
	if home.OnGoingChallenge != nil {
		t.Errorf("challenge = %+v, want nil", home.OnGoingChallenge)
	}
}

func TestHomeRequiresPartner(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, 1, "solo", nil)

	_, err := e.viewSvc.Home(context.Background(), 1)
	if !errors.Is(err, apperr.ErrPartnerNotMatched) {
		t.Errorf("err = %v, want ErrPartnerNotMatched", err)
	}
}
