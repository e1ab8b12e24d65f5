package services

import (
	"context"
	"errors"
	"time"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/sequence"
	"plantPactAPI/internal/types/commit"
	"plantPactAPI/utils"
)

const seqKeyCommit = "commitNo"

type CommitService struct {
	commits    CommitStore
	challenges ChallengeStore
	users      UserStore
	seq        *sequence.Allocator
	loc        *time.Location
	now        func() time.Time
}

func NewCommitService(commits CommitStore, challenges ChallengeStore, users UserStore, seq *sequence.Allocator, loc *time.Location) *CommitService {
	return &CommitService{
		commits:    commits,
		challenges: challenges,
		users:      users,
		seq:        seq,
		loc:        loc,
		now:        time.Now,
	}
}

// Create records today's check-in for userNo. The challenge must be approved
// and inside its window, and the user must not have committed today yet. The
// store's uniqueness guard is the final arbiter of the once-per-day rule; the
// pre-check only exists so the common case fails before allocating a number.
func (s *CommitService) Create(ctx context.Context, userNo int64, req commit.CreateRequest) (*commit.Commit, error) {
	ch, err := s.challenges.FindByNo(ctx, req.ChallengeNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to look up challenge", err)
	}
	if ch == nil {
		return nil, apperr.ErrChallengeNotFound
	}
	if !ch.HasParticipant(userNo) {
		return nil, apperr.ErrNotYourChallenge
	}

	now := s.now()
	if !ch.IsApproved || ch.IsFinished || now.Before(utils.StartOfDay(ch.StartDate, s.loc)) || utils.EndOfDay(ch.EndDate, s.loc).Before(now) {
		return nil, apperr.ErrChallengeNotActive
	}

	existing, err := s.commits.FindInWindow(ctx, req.ChallengeNo, userNo,
		utils.StartOfDay(now, s.loc), utils.EndOfDay(now, s.loc))
	if err != nil {
		return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to look up today's commit", err)
	}
	if existing != nil {
		return nil, apperr.ErrAlreadyCommitted
	}

	commitNo, err := s.seq.Next(ctx, seqKeyCommit)
	if err != nil {
		return nil, err
	}

	c := &commit.Commit{
		CommitNo:    commitNo,
		ChallengeNo: req.ChallengeNo,
		UserNo:      userNo,
		Text:        req.Text,
		PhotoURL:    req.PhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.commits.Insert(ctx, c); err != nil {
		if errors.Is(err, apperr.ErrAlreadyCommitted) {
			return nil, err
		}
		return nil, apperr.Fatal("COMMIT_CREATE_FAILED", "failed to create commit", err)
	}

	updated, err := s.challenges.IncrementTally(ctx, req.ChallengeNo, userNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_UPDATE_FAILED", "failed to update commit tally", err)
	}
	if updated == nil {
		// The challenge was deleted between the window check and the
		// tally write, so the guarded update matched nothing.
		return nil, apperr.ErrChallengeNotFound
	}

	utils.Log.Infow("created commit", "commitNo", c.CommitNo,
		"challengeNo", c.ChallengeNo, "userNo", userNo)
	return c, nil
}

// Find returns a commit to its owner. Partners read commits through the
// challenge detail view, not here.
func (s *CommitService) Find(ctx context.Context, callerNo, commitNo int64) (*commit.Commit, error) {
	c, err := s.commits.FindByNo(ctx, commitNo)
	if err != nil {
		return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to look up commit", err)
	}
	if c == nil {
		return nil, apperr.ErrCommitNotFound
	}
	if c.UserNo != callerNo {
		return nil, apperr.ErrNotOwnCommit
	}
	return c, nil
}

// FindToday returns the user's commit for the current calendar day, or nil.
func (s *CommitService) FindToday(ctx context.Context, challengeNo, userNo int64) (*commit.Commit, error) {
	now := s.now()
	c, err := s.commits.FindInWindow(ctx, challengeNo, userNo,
		utils.StartOfDay(now, s.loc), utils.EndOfDay(now, s.loc))
	if err != nil {
		return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to look up today's commit", err)
	}
	return c, nil
}

func (s *CommitService) List(ctx context.Context, challengeNo, userNo int64) ([]commit.Commit, error) {
	list, err := s.commits.List(ctx, challengeNo, userNo)
	if err != nil {
		return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to list commits", err)
	}
	return list, nil
}

// AddPartnerComment sets the one-shot praise comment on a partner's commit.
// Only the commit owner's partner may write it, and only while it is empty.
func (s *CommitService) AddPartnerComment(ctx context.Context, callerNo, commitNo int64, comment string) (*commit.Commit, error) {
	caller, err := s.users.FindByNo(ctx, callerNo)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up user", err)
	}
	if caller == nil {
		return nil, apperr.ErrUserNotFound
	}

	c, err := s.commits.FindByNo(ctx, commitNo)
	if err != nil {
		return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to look up commit", err)
	}
	if c == nil {
		return nil, apperr.ErrCommitNotFound
	}
	if c.PartnerComment != "" {
		return nil, apperr.ErrAlreadyPraised
	}
	if caller.PartnerNo == nil || *caller.PartnerNo != c.UserNo {
		return nil, apperr.ErrNotPartnerCommit
	}

	updated, err := s.commits.SetPartnerComment(ctx, commitNo, comment)
	if err != nil {
		return nil, apperr.Fatal("COMMIT_UPDATE_FAILED", "failed to set partner comment", err)
	}
	if updated == nil {
		// Lost the race to another write of the same comment.
		return nil, apperr.ErrAlreadyPraised
	}

	utils.Log.Infow("added partner comment", "commitNo", commitNo, "callerNo", callerNo)
	return updated, nil
}

// Delete soft-deletes a single commit the caller owns.
func (s *CommitService) Delete(ctx context.Context, callerNo, commitNo int64) error {
	if _, err := s.Find(ctx, callerNo, commitNo); err != nil {
		return err
	}
	if err := s.commits.SoftDelete(ctx, commitNo); err != nil {
		return apperr.Fatal("COMMIT_DELETE_FAILED", "failed to delete commit", err)
	}
	utils.Log.Infow("deleted commit", "commitNo", commitNo)
	return nil
}
