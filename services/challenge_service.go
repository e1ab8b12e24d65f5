package services

import (
	"context"
	"time"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/growth"
	"plantPactAPI/internal/sequence"
	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/internal/types/user"
	"plantPactAPI/utils"
)

const seqKeyChallenge = "challengeNo"

type ChallengeService struct {
	challenges ChallengeStore
	commits    CommitStore
	users      UserStore
	seq        *sequence.Allocator
	loc        *time.Location
	now        func() time.Time
}

func NewChallengeService(challenges ChallengeStore, commits CommitStore, users UserStore, seq *sequence.Allocator, loc *time.Location) *ChallengeService {
	return &ChallengeService{
		challenges: challenges,
		commits:    commits,
		users:      users,
		seq:        seq,
		loc:        loc,
		now:        time.Now,
	}
}

// Create starts a new pending challenge from creatorNo toward their partner.
// If the partner already has an open invitation toward the creator, that
// pending challenge (and its commits) is evicted first, so the two
// invitations can never deadlock each other.
func (s *ChallengeService) Create(ctx context.Context, creatorNo int64, req challenge.CreateRequest) (*challenge.Challenge, error) {
	creator, err := s.users.FindByNo(ctx, creatorNo)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up user", err)
	}
	if creator == nil {
		return nil, apperr.ErrUserNotFound
	}
	if creator.PartnerNo == nil {
		return nil, apperr.ErrPartnerMissing
	}
	if !req.User2Flower.IsValid() {
		return nil, apperr.ErrInvalidFlower
	}

	partner, err := s.users.FindByNo(ctx, *creator.PartnerNo)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up partner", err)
	}
	if partner == nil {
		return nil, apperr.ErrUserNotFound
	}

	pending, err := s.challenges.FindPendingByCreator(ctx, partner.UserNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to look up pending challenge", err)
	}
	if pending != nil {
		if _, err := s.Delete(ctx, pending.ChallengeNo); err != nil {
			return nil, err
		}
		utils.Log.Infow("evicted partner's pending challenge",
			"challengeNo", pending.ChallengeNo, "creatorNo", creatorNo)
	}

	challengeNo, err := s.seq.Next(ctx, seqKeyChallenge)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ch := &challenge.Challenge{
		ChallengeNo: challengeNo,
		Name:        req.Name,
		Description: req.Description,
		User1:       challenge.Participant{UserNo: creator.UserNo, Nickname: creator.NicknameOrEmpty()},
		User2:       challenge.Participant{UserNo: partner.UserNo, Nickname: partner.NicknameOrEmpty()},
		StartDate:   req.StartDate,
		EndDate:     utils.EndOfDay(req.StartDate, s.loc).AddDate(0, 0, 21),
		User2Flower: req.User2Flower,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.challenges.Insert(ctx, ch); err != nil {
		e := *apperr.ErrChallengeCreate
		e.Err = err
		return nil, &e
	}

	utils.Log.Infow("created challenge", "challengeNo", ch.ChallengeNo,
		"user1No", ch.User1.UserNo, "user2No", ch.User2.UserNo)
	return ch, nil
}

// Find returns a non-deleted challenge by number.
func (s *ChallengeService) Find(ctx context.Context, challengeNo int64) (*challenge.Challenge, error) {
	ch, err := s.challenges.FindByNo(ctx, challengeNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to look up challenge", err)
	}
	if ch == nil {
		return nil, apperr.ErrChallengeNotFound
	}
	return ch, nil
}

// FindWithCommits is the detail view: the challenge plus both participants'
// commit streams.
func (s *ChallengeService) FindWithCommits(ctx context.Context, challengeNo int64) (*challenge.WithCommits, error) {
	ch, err := s.Find(ctx, challengeNo)
	if err != nil {
		return nil, err
	}

	user1Commits, err := s.commits.List(ctx, challengeNo, ch.User1.UserNo)
	if err != nil {
		return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to list commits", err)
	}
	user2Commits, err := s.commits.List(ctx, challengeNo, ch.User2.UserNo)
	if err != nil {
		return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to list commits", err)
	}

	return &challenge.WithCommits{
		Challenge:       *ch,
		User1CommitList: user1Commits,
		User2CommitList: user2Commits,
	}, nil
}

func (s *ChallengeService) FindUserChallenges(ctx context.Context, userNo int64) ([]challenge.Challenge, error) {
	list, err := s.challenges.FindByUser(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to list challenges", err)
	}
	return list, nil
}

// FindRecent returns the user's most recent non-deleted challenge, or nil.
func (s *ChallengeService) FindRecent(ctx context.Context, userNo int64) (*challenge.Challenge, error) {
	ch, err := s.challenges.FindRecentByUser(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to look up recent challenge", err)
	}
	return ch, nil
}

func (s *ChallengeService) CountApproved(ctx context.Context, userNo int64) (int, error) {
	n, err := s.challenges.CountApprovedByUser(ctx, userNo)
	if err != nil {
		return 0, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to count challenges", err)
	}
	return n, nil
}

// ValidateAccessible rejects callers who are not one of the two participants.
func (s *ChallengeService) ValidateAccessible(ctx context.Context, userNo, challengeNo int64) error {
	ch, err := s.Find(ctx, challengeNo)
	if err != nil {
		return err
	}
	if !ch.HasParticipant(userNo) {
		return apperr.ErrNotYourChallenge
	}
	return nil
}

// Approve accepts a pending challenge and records the acceptor's flower
// choice. Only legal while the challenge is still unapproved.
func (s *ChallengeService) Approve(ctx context.Context, challengeNo int64, user1Flower challenge.FlowerType) (*challenge.Challenge, error) {
	if !user1Flower.IsValid() {
		return nil, apperr.ErrInvalidFlower
	}

	updated, err := s.challenges.SetApproved(ctx, challengeNo, user1Flower)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_UPDATE_FAILED", "failed to approve challenge", err)
	}
	if updated == nil {
		// Guard matched nothing: either gone or already approved.
		if _, err := s.Find(ctx, challengeNo); err != nil {
			return nil, err
		}
		return nil, apperr.ErrChallengeApproved
	}

	utils.Log.Infow("approved challenge", "challengeNo", challengeNo)
	return updated, nil
}

// Update patches name, description or one of the two dates. Setting one date
// recomputes the other through the fixed 21-day offset; setting both in one
// call is rejected.
func (s *ChallengeService) Update(ctx context.Context, challengeNo int64, req challenge.UpdateRequest) (*challenge.Challenge, error) {
	if req.StartDate != nil && req.EndDate != nil {
		return nil, apperr.ErrExclusiveDateFields
	}

	patch := ChallengePatch{Name: req.Name, Description: req.Description}
	if req.StartDate != nil {
		start := utils.StartOfDay(*req.StartDate, s.loc)
		end := utils.EndOfDay(start, s.loc).AddDate(0, 0, 21)
		patch.StartDate = &start
		patch.EndDate = &end
	} else if req.EndDate != nil {
		end := utils.EndOfDay(*req.EndDate, s.loc)
		start := utils.StartOfDay(end, s.loc).AddDate(0, 0, -21)
		patch.StartDate = &start
		patch.EndDate = &end
	}

	updated, err := s.challenges.Update(ctx, challengeNo, patch)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_UPDATE_FAILED", "failed to update challenge", err)
	}
	if updated == nil {
		return nil, apperr.ErrChallengeNotFound
	}
	return updated, nil
}

// Finish marks the challenge finished. There is deliberately no "end date
// has passed" guard; whether finishing early makes sense is the caller's
// call.
func (s *ChallengeService) Finish(ctx context.Context, challengeNo int64) (*challenge.Challenge, error) {
	ch, err := s.Find(ctx, challengeNo)
	if err != nil {
		return nil, err
	}
	if ch.IsFinished {
		return nil, apperr.ErrChallengeFinished
	}

	updated, err := s.challenges.SetFinished(ctx, challengeNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_UPDATE_FAILED", "failed to finish challenge", err)
	}
	if updated == nil {
		return nil, apperr.ErrChallengeNotFound
	}

	utils.Log.Infow("finished challenge", "challengeNo", challengeNo)
	return updated, nil
}

// Delete soft-deletes the challenge and cascades to its commits. Idempotent.
func (s *ChallengeService) Delete(ctx context.Context, challengeNo int64) (int64, error) {
	if err := s.challenges.SoftDelete(ctx, challengeNo); err != nil {
		return 0, apperr.Fatal("CHALLENGE_DELETE_FAILED", "failed to delete challenge", err)
	}
	if err := s.commits.SoftDeleteByChallenge(ctx, challengeNo); err != nil {
		return 0, apperr.Fatal("COMMIT_DELETE_FAILED", "failed to delete commits", err)
	}

	utils.Log.Infow("deleted challenge", "challengeNo", challengeNo)
	return challengeNo, nil
}

// DeleteAllForUser soft-deletes every challenge the user participates in.
// Used when a partnership is dissolved.
func (s *ChallengeService) DeleteAllForUser(ctx context.Context, userNo int64) error {
	if err := s.challenges.SoftDeleteAllByUser(ctx, userNo); err != nil {
		return apperr.Fatal("CHALLENGE_DELETE_FAILED", "failed to delete challenges", err)
	}
	return nil
}

// History partitions the user's challenges into finished ones and those
// currently in progress (filtered through the derived view state), each
// tagged with a display label.
func (s *ChallengeService) History(ctx context.Context, userNo int64) ([]challenge.HistoryEntry, error) {
	finished, err := s.challenges.FindFinishedByUser(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to list finished challenges", err)
	}

	entries := make([]challenge.HistoryEntry, 0, len(finished))
	for i := range finished {
		entries = append(entries, historyEntry(&finished[i], "Finished"))
	}

	ongoing, err := s.challenges.FindOngoingByUser(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("CHALLENGE_LOOKUP_FAILED", "failed to list ongoing challenges", err)
	}
	now := s.now()
	for i := range ongoing {
		if DeriveViewState(&ongoing[i], userNo, now, s.loc) == viewInProgress {
			entries = append(entries, historyEntry(&ongoing[i], "InProgress"))
		}
	}

	return entries, nil
}

func historyEntry(ch *challenge.Challenge, state string) challenge.HistoryEntry {
	return challenge.HistoryEntry{
		ChallengeNo:    ch.ChallengeNo,
		Name:           ch.Name,
		Description:    ch.Description,
		StartDate:      ch.StartDate,
		EndDate:        ch.EndDate,
		User1CommitCnt: ch.User1CommitCnt,
		User2CommitCnt: ch.User2CommitCnt,
		User1Flower:    ch.User1Flower,
		User2Flower:    ch.User2Flower,
		User1No:        ch.User1.UserNo,
		User2No:        ch.User2.UserNo,
		ViewState:      state,
	}
}

// GrowthDiary assembles both participants' diary sides for a challenge the
// caller takes part in.
func (s *ChallengeService) GrowthDiary(ctx context.Context, callerNo, challengeNo int64) (*growth.DiaryResponse, error) {
	ch, err := s.Find(ctx, challengeNo)
	if err != nil {
		return nil, err
	}
	if !ch.HasParticipant(callerNo) {
		return nil, apperr.ErrNotYourChallenge
	}
	if ch.IsFinished {
		return nil, apperr.ErrChallengeFinished
	}

	me, err := s.users.FindByNo(ctx, callerNo)
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

	mySide, err := s.diarySide(ctx, ch, me)
	if err != nil {
		return nil, err
	}
	partnerSide, err := s.diarySide(ctx, ch, partner)
	if err != nil {
		return nil, err
	}

	return &growth.DiaryResponse{
		ChallengeName:      ch.Name,
		ChallengeStartDate: ch.StartDate,
		ChallengeEndDate:   ch.EndDate,
		My:                 *mySide,
		Partner:            *partnerSide,
	}, nil
}

func (s *ChallengeService) diarySide(ctx context.Context, ch *challenge.Challenge, u *user.User) (*growth.DiarySide, error) {
	commits, err := s.commits.ListRecent(ctx, ch.ChallengeNo, u.UserNo)
	if err != nil {
		return nil, apperr.Fatal("COMMIT_LOOKUP_FAILED", "failed to list commits", err)
	}

	times := make([]time.Time, 0, len(commits))
	for _, c := range commits {
		times = append(times, c.CreatedAt)
	}

	statuses, recentActivity := growth.Compute(ch.StartDate, s.now(), times, s.loc)
	return &growth.DiarySide{
		Nickname:     u.NicknameOrEmpty(),
		TipMessage:   growth.SelectTip(statuses, recentActivity),
		GrowthList:   statuses,
		SuccessCount: growth.Count(statuses, growth.Success),
	}, nil
}
