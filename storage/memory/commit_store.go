package memory

import (
	"context"
	"sort"
	"time"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/types/commit"
	"plantPactAPI/services"
	"plantPactAPI/utils"
)

type CommitStore struct{ s *Store }

var _ services.CommitStore = (*CommitStore)(nil)

func cloneCommit(c *commit.Commit) *commit.Commit {
	cp := *c
	return &cp
}

// Insert enforces the one-commit-per-user-per-day rule, the same way the
// postgres backend's partial unique index does.
func (r *CommitStore) Insert(_ context.Context, c *commit.Commit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.commits {
		if existing.IsDeleted || existing.ChallengeNo != c.ChallengeNo || existing.UserNo != c.UserNo {
			continue
		}
		if utils.SameDay(existing.CreatedAt, c.CreatedAt, r.s.loc) {
			return apperr.ErrAlreadyCommitted
		}
	}
	r.s.commits[c.CommitNo] = cloneCommit(c)
	return nil
}

func (r *CommitStore) FindByNo(_ context.Context, commitNo int64) (*commit.Commit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commits[commitNo]
	if !ok || c.IsDeleted {
		return nil, nil
	}
	return cloneCommit(c), nil
}

func (r *CommitStore) FindInWindow(_ context.Context, challengeNo, userNo int64, from, to time.Time) (*commit.Commit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.commits {
		if c.IsDeleted || c.ChallengeNo != challengeNo || c.UserNo != userNo {
			continue
		}
		if !c.CreatedAt.Before(from) && !c.CreatedAt.After(to) {
			return cloneCommit(c), nil
		}
	}
	return nil, nil
}

func (r *CommitStore) list(challengeNo, userNo int64) []commit.Commit {
	var out []commit.Commit
	for _, c := range r.s.commits {
		if !c.IsDeleted && c.ChallengeNo == challengeNo && c.UserNo == userNo {
			out = append(out, *c)
		}
	}
	return out
}

func (r *CommitStore) List(_ context.Context, challengeNo, userNo int64) ([]commit.Commit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.list(challengeNo, userNo)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CommitStore) ListRecent(_ context.Context, challengeNo, userNo int64) ([]commit.Commit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.list(challengeNo, userNo)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CommitStore) SetPartnerComment(_ context.Context, commitNo int64, comment string) (*commit.Commit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commits[commitNo]
	if !ok || c.IsDeleted || c.PartnerComment != "" {
		return nil, nil
	}
	c.PartnerComment = comment
	c.UpdatedAt = time.Now()
	return cloneCommit(c), nil
}

func (r *CommitStore) SoftDelete(_ context.Context, commitNo int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.commits[commitNo]; ok {
		c.IsDeleted = true
		c.UpdatedAt = time.Now()
	}
	return nil
}

func (r *CommitStore) SoftDeleteByChallenge(_ context.Context, challengeNo int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.commits {
		if c.ChallengeNo == challengeNo {
			c.IsDeleted = true
			c.UpdatedAt = time.Now()
		}
	}
	return nil
}
