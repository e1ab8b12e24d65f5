package memory

import (
	"context"
	"sort"
	"time"

	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/services"
)

type ChallengeStore struct{ s *Store }

var _ services.ChallengeStore = (*ChallengeStore)(nil)

func cloneChallenge(ch *challenge.Challenge) *challenge.Challenge {
	c := *ch
	return &c
}

func (r *ChallengeStore) Insert(_ context.Context, ch *challenge.Challenge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.challenges[ch.ChallengeNo] = cloneChallenge(ch)
	return nil
}

func (r *ChallengeStore) FindByNo(_ context.Context, challengeNo int64) (*challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ch, ok := r.s.challenges[challengeNo]
	if !ok || ch.IsDeleted {
		return nil, nil
	}
	return cloneChallenge(ch), nil
}

// byUser collects non-deleted challenges the user participates in, newest
// first.
func (r *ChallengeStore) byUser(userNo int64, keep func(*challenge.Challenge) bool) []challenge.Challenge {
	var out []challenge.Challenge
	for _, ch := range r.s.challenges {
		if ch.IsDeleted || !ch.HasParticipant(userNo) {
			continue
		}
		if keep != nil && !keep(ch) {
			continue
		}
		out = append(out, *ch)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ChallengeNo > out[j].ChallengeNo
	})
	return out
}

func (r *ChallengeStore) FindRecentByUser(_ context.Context, userNo int64) (*challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.byUser(userNo, nil)
	if len(list) == 0 {
		return nil, nil
	}
	return cloneChallenge(&list[0]), nil
}

func (r *ChallengeStore) FindByUser(_ context.Context, userNo int64) ([]challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byUser(userNo, nil), nil
}

func (r *ChallengeStore) FindPendingByCreator(_ context.Context, creatorNo int64) (*challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ch := range r.s.challenges {
		if !ch.IsDeleted && !ch.IsApproved && ch.User1.UserNo == creatorNo {
			return cloneChallenge(ch), nil
		}
	}
	return nil, nil
}

func (r *ChallengeStore) FindFinishedByUser(_ context.Context, userNo int64) ([]challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byUser(userNo, func(ch *challenge.Challenge) bool { return ch.IsFinished }), nil
}

func (r *ChallengeStore) FindOngoingByUser(_ context.Context, userNo int64) ([]challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byUser(userNo, func(ch *challenge.Challenge) bool {
		return ch.IsApproved && !ch.IsFinished
	}), nil
}

func (r *ChallengeStore) CountApprovedByUser(_ context.Context, userNo int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.byUser(userNo, func(ch *challenge.Challenge) bool { return ch.IsApproved })), nil
}

func (r *ChallengeStore) Update(_ context.Context, challengeNo int64, patch services.ChallengePatch) (*challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ch, ok := r.s.challenges[challengeNo]
	if !ok || ch.IsDeleted {
		return nil, nil
	}
	if patch.Name != nil {
		ch.Name = *patch.Name
	}
	if patch.Description != nil {
		ch.Description = *patch.Description
	}
	if patch.StartDate != nil {
		ch.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		ch.EndDate = *patch.EndDate
	}
	ch.UpdatedAt = time.Now()
	return cloneChallenge(ch), nil
}

func (r *ChallengeStore) SetApproved(_ context.Context, challengeNo int64, user1Flower challenge.FlowerType) (*challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ch, ok := r.s.challenges[challengeNo]
	if !ok || ch.IsDeleted || ch.IsApproved {
		return nil, nil
	}
	ch.IsApproved = true
	ch.User1Flower = user1Flower
	ch.UpdatedAt = time.Now()
	return cloneChallenge(ch), nil
}

func (r *ChallengeStore) SetFinished(_ context.Context, challengeNo int64) (*challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ch, ok := r.s.challenges[challengeNo]
	if !ok || ch.IsDeleted {
		return nil, nil
	}
	ch.IsFinished = true
	ch.UpdatedAt = time.Now()
	return cloneChallenge(ch), nil
}

func (r *ChallengeStore) SoftDelete(_ context.Context, challengeNo int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ch, ok := r.s.challenges[challengeNo]; ok {
		ch.IsDeleted = true
		ch.UpdatedAt = time.Now()
	}
	return nil
}

func (r *ChallengeStore) SoftDeleteAllByUser(_ context.Context, userNo int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ch := range r.s.challenges {
		if ch.HasParticipant(userNo) {
			ch.IsDeleted = true
			ch.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *ChallengeStore) IncrementTally(_ context.Context, challengeNo, userNo int64) (*challenge.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ch, ok := r.s.challenges[challengeNo]
	if !ok || ch.IsDeleted {
		return nil, nil
	}
	switch userNo {
	case ch.User1.UserNo:
		ch.User1CommitCnt++
	case ch.User2.UserNo:
		ch.User2CommitCnt++
	default:
		return nil, nil
	}
	ch.UpdatedAt = time.Now()
	return cloneChallenge(ch), nil
}

func (r *ChallengeStore) PropagateNickname(_ context.Context, userNo int64, nickname string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ch := range r.s.challenges {
		if ch.User1.UserNo == userNo {
			ch.User1.Nickname = nickname
		}
		if ch.User2.UserNo == userNo {
			ch.User2.Nickname = nickname
		}
	}
	return nil
}
