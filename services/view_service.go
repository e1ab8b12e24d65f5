package services

import (
	"context"
	"time"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/internal/types/view"
	"plantPactAPI/utils"
)

const viewInProgress = view.InProgress

// DeriveViewState classifies the most recent challenge relative to a viewer
// and a point in time. Pure; recomputed on every read and never persisted.
func DeriveViewState(ch *challenge.Challenge, viewerNo int64, now time.Time, loc *time.Location) view.HomeState {
	if ch == nil || ch.IsFinished || ch.IsDeleted {
		return view.BeforeCreate
	}

	if !ch.IsApproved {
		approveDeadline := utils.EndOfDay(ch.StartDate, loc)
		switch {
		case approveDeadline.Before(now):
			return view.ExpiredByNotApproved
		case viewerNo == ch.User1.UserNo:
			return view.BeforePartnerApprove
		case viewerNo == ch.User2.UserNo:
			return view.BeforeMyApprove
		default:
			return view.BeforeCreate
		}
	}

	if now.Before(utils.StartOfDay(ch.StartDate, loc)) {
		return view.ApprovedButBeforeStartDate
	}
	if utils.EndOfDay(ch.EndDate, loc).Before(now) {
		return view.Complete
	}
	return view.InProgress
}

type ViewService struct {
	challenges    ChallengeStore
	commits       CommitStore
	users         UserStore
	notifications NotificationStore
	loc           *time.Location
	now           func() time.Time
}

func NewViewService(challenges ChallengeStore, commits CommitStore, users UserStore, notifications NotificationStore, loc *time.Location) *ViewService {
	return &ViewService{
		challenges:    challenges,
		commits:       commits,
		users:         users,
		notifications: notifications,
		loc:           loc,
		now:           time.Now,
	}
}

// Home builds the home screen: derived view state, the ongoing challenge,
// both partners' today-commits and today's sting count.
func (s *ViewService) Home(ctx context.Context, userNo int64) (*view.HomeResponse, error) {
	me, err := s.users.FindByNo(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up user", err)
	}
	if me == nil {
		return nil, apperr.ErrUserNotFound
	}
	if me.PartnerNo == nil {
		return nil, apperr.ErrPartnerNotMatched
	}

	partner, err := s.users.FindByNo(ctx, *me.PartnerNo)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up partner", err)
	}
	if partner == nil {
		return nil, apperr.ErrUserNotFound
	}

	recent, err := s.challenges.FindRecentByUser(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to look up recent challenge", err)
	}

	resp := &view.HomeResponse{
		ViewState:        DeriveViewState(recent, userNo, s.now(), s.loc),
		OnGoingChallenge: recent,
		MyInfo:           me.Profile(),
		PartnerInfo:      partner.Profile(),
	}

	total, err := s.challenges.CountApprovedByUser(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to count challenges", err)
	}
	resp.ChallengeTotal = total

	if recent != nil {
		now := s.now()
		from := utils.StartOfDay(now, s.loc)
		to := utils.EndOfDay(now, s.loc)

		resp.MyCommit, err = s.commits.FindInWindow(ctx, recent.ChallengeNo, me.UserNo, from, to)
		if err != nil {
			return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to look up today's commit", err)
		}
		resp.PartnerCommit, err = s.commits.FindInWindow(ctx, recent.ChallengeNo, partner.UserNo, from, to)
		if err != nil {
			return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to look up partner's commit", err)
		}

		resp.MyStingCnt, err = s.notifications.CountInWindow(ctx, userNo, recent.ChallengeNo, from, to)
		if err != nil {
			return nil, apperr.Fatal("NOTIFICATION_LOOKUP_FAILED", "failed to count stings", err)
		}
	}

	return resp, nil
}
