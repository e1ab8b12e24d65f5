package services

import "time"

// Clock overrides for deterministic day-boundary tests.

func (s *ChallengeService) SetClock(now func() time.Time)    { s.now = now }
func (s *CommitService) SetClock(now func() time.Time)       { s.now = now }
func (s *ViewService) SetClock(now func() time.Time)         { s.now = now }
func (s *UserService) SetClock(now func() time.Time)         { s.now = now }
func (s *NotificationService) SetClock(now func() time.Time) { s.now = now }
