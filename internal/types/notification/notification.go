package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeChallengeCreate  Type = "CHALLENGE_CREATE"
	TypeChallengeApprove Type = "CHALLENGE_APPROVE"
	TypeCommit           Type = "COMMIT"
	TypeSting            Type = "STING"
)

// Notification records one sting/nudge pushed to a partner.
type Notification struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserNo      int64     `json:"userNo" db:"user_no"`
	ChallengeNo int64     `json:"challengeNo" db:"challenge_no"`
	Message     string    `json:"message" db:"message"`
	Type        Type      `json:"type" db:"type"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Push is a single delivery request handed to the push provider.
type Push struct {
	DeviceToken string
	Nickname    string
	Message     string
	Type        Type
}

type StingRequest struct {
	Message string `json:"message"`
}
