package services

import (
	"context"
	"time"

	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/internal/types/commit"
	"plantPactAPI/internal/types/notification"
	"plantPactAPI/internal/types/user"
)

// The services own these contracts; storage/postgres and storage/memory
// implement them. Every conditional method returns (nil, nil) when the
// guard matched no record, so the service layer decides which business
// error that means.

// ChallengePatch is the closed set of directly patchable challenge fields.
type ChallengePatch struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

type ChallengeStore interface {
	Insert(ctx context.Context, ch *challenge.Challenge) error
	// FindByNo returns the non-deleted challenge, or nil.
	FindByNo(ctx context.Context, challengeNo int64) (*challenge.Challenge, error)
	// FindRecentByUser returns the user's newest non-deleted challenge, or nil.
	FindRecentByUser(ctx context.Context, userNo int64) (*challenge.Challenge, error)
	FindByUser(ctx context.Context, userNo int64) ([]challenge.Challenge, error)
	// FindPendingByCreator returns a non-deleted, not-yet-approved challenge
	// created by creatorNo, or nil.
	FindPendingByCreator(ctx context.Context, creatorNo int64) (*challenge.Challenge, error)
	FindFinishedByUser(ctx context.Context, userNo int64) ([]challenge.Challenge, error)
	// FindOngoingByUser returns approved, unfinished, non-deleted challenges.
	FindOngoingByUser(ctx context.Context, userNo int64) ([]challenge.Challenge, error)
	CountApprovedByUser(ctx context.Context, userNo int64) (int, error)
	// Update patches a non-deleted challenge and returns the new record.
	Update(ctx context.Context, challengeNo int64, patch ChallengePatch) (*challenge.Challenge, error)
	// SetApproved flips isApproved and records the acceptor's flower, guarded
	// by (not deleted, not yet approved).
	SetApproved(ctx context.Context, challengeNo int64, user1Flower challenge.FlowerType) (*challenge.Challenge, error)
	// SetFinished flips isFinished, guarded by (not deleted).
	SetFinished(ctx context.Context, challengeNo int64) (*challenge.Challenge, error)
	// SoftDelete marks the challenge deleted. Idempotent.
	SoftDelete(ctx context.Context, challengeNo int64) error
	SoftDeleteAllByUser(ctx context.Context, userNo int64) error
	// IncrementTally bumps exactly the tally slot whose participant matches
	// userNo, guarded by (not deleted, participant matches).
	IncrementTally(ctx context.Context, challengeNo, userNo int64) (*challenge.Challenge, error)
	// PropagateNickname rewrites the denormalized participant snapshots
	// after a rename.
	PropagateNickname(ctx context.Context, userNo int64, nickname string) error
}

type CommitStore interface {
	// Insert stores the commit. The store is the arbiter of the
	// one-commit-per-user-per-day rule and returns apperr.ErrAlreadyCommitted
	// when the day is already taken.
	Insert(ctx context.Context, c *commit.Commit) error
	// FindByNo returns the non-deleted commit, or nil.
	FindByNo(ctx context.Context, commitNo int64) (*commit.Commit, error)
	// FindInWindow returns the user's non-deleted commit inside [from, to],
	// or nil.
	FindInWindow(ctx context.Context, challengeNo, userNo int64, from, to time.Time) (*commit.Commit, error)
	List(ctx context.Context, challengeNo, userNo int64) ([]commit.Commit, error)
	// ListRecent is List sorted newest-first; the diary read path.
	ListRecent(ctx context.Context, challengeNo, userNo int64) ([]commit.Commit, error)
	// SetPartnerComment sets the comment, guarded by (not deleted, comment
	// still empty).
	SetPartnerComment(ctx context.Context, commitNo int64, comment string) (*commit.Commit, error)
	SoftDelete(ctx context.Context, commitNo int64) error
	SoftDeleteByChallenge(ctx context.Context, challengeNo int64) error
}

type UserStore interface {
	Insert(ctx context.Context, u *user.User) error
	// FindByNo returns the user, or nil.
	FindByNo(ctx context.Context, userNo int64) (*user.User, error)
	FindBySocial(ctx context.Context, socialID string, loginType user.LoginType) (*user.User, error)
	// FindByPartnerNo returns the user whose partnerNo equals userNo, or nil.
	FindByPartnerNo(ctx context.Context, userNo int64) (*user.User, error)
	SetNickname(ctx context.Context, userNo int64, nickname string) (*user.User, error)
	SetNicknameAndPartner(ctx context.Context, userNo int64, nickname string, partnerNo int64) (*user.User, error)
	SetPartner(ctx context.Context, userNo, partnerNo int64) (*user.User, error)
	SetDeviceToken(ctx context.Context, userNo int64, deviceToken string) (*user.User, error)
	// ClearPartnership nulls nickname and partnerNo for every given user.
	ClearPartnership(ctx context.Context, userNos ...int64) error
	Delete(ctx context.Context, userNo int64) error
}

type NotificationStore interface {
	Insert(ctx context.Context, n *notification.Notification) error
	// CountInWindow counts the user's stings for a challenge inside [from, to].
	CountInWindow(ctx context.Context, userNo, challengeNo int64, from, to time.Time) (int, error)
}

// PushProvider delivers one push message. Delivery failure never unwinds
// the write that triggered it.
type PushProvider interface {
	SendPush(ctx context.Context, push notification.Push) error
}
