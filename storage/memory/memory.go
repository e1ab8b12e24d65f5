// Package memory is an in-process implementation of every persistence
// contract. It backs tests and local development; the guard semantics
// mirror the postgres backend exactly, including the one-commit-per-day
// uniqueness rule.
package memory

import (
	"context"
	"sync"
	"time"

	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/internal/types/commit"
	"plantPactAPI/internal/types/notification"
	"plantPactAPI/internal/types/user"
)

// Store holds all records behind one mutex. Facade accessors expose the
// per-entity contracts; they all share this state.
type Store struct {
	mu  sync.Mutex
	loc *time.Location

	challenges    map[int64]*challenge.Challenge
	commits       map[int64]*commit.Commit
	users         map[int64]*user.User
	notifications []notification.Notification
	sequences     map[string]int64
}

func New(loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{
		loc:        loc,
		challenges: make(map[int64]*challenge.Challenge),
		commits:    make(map[int64]*commit.Commit),
		users:      make(map[int64]*user.User),
		sequences:  make(map[string]int64),
	}
}

func (s *Store) Challenges() *ChallengeStore       { return &ChallengeStore{s} }
func (s *Store) Commits() *CommitStore             { return &CommitStore{s} }
func (s *Store) Users() *UserStore                 { return &UserStore{s} }
func (s *Store) Notifications() *NotificationStore { return &NotificationStore{s} }
func (s *Store) Sequences() *SequenceStore         { return &SequenceStore{s} }

// SequenceStore implements sequence.Store.
type SequenceStore struct{ s *Store }

func (q *SequenceStore) IncrementAndGet(_ context.Context, key string) (int64, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	q.s.sequences[key]++
	return q.s.sequences[key], nil
}
