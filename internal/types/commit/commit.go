package commit

import "time"

// Commit is a single day's check-in by one participant. CreatedAt decides
// which calendar day it belongs to.
type Commit struct {
	CommitNo       int64     `json:"commitNo" db:"commit_no"`
	ChallengeNo    int64     `json:"challengeNo" db:"challenge_no"`
	UserNo         int64     `json:"userNo" db:"user_no"`
	Text           string    `json:"text" db:"text"`
	PhotoURL       string    `json:"photoUrl" db:"photo_url"`
	PartnerComment string    `json:"partnerComment" db:"partner_comment"`
	IsDeleted      bool      `json:"-" db:"is_deleted"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateRequest struct {
	ChallengeNo int64  `json:"challengeNo"`
	Text        string `json:"text"`
	PhotoURL    string `json:"photoUrl"`
}

type PartnerCommentRequest struct {
	Comment string `json:"comment"`
}
