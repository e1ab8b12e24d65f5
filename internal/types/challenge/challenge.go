package challenge

import "time"

// FlowerType is the decorative reward each participant grows over the
// 22-day window.
type FlowerType string

const (
	FlowerFig           FlowerType = "FIG"
	FlowerTulip         FlowerType = "TULIP"
	FlowerRose          FlowerType = "ROSE"
	FlowerCotton        FlowerType = "COTTON"
	FlowerChrysanthemum FlowerType = "CHRYSANTHEMUM"
	FlowerSunflower     FlowerType = "SUNFLOWER"
	FlowerCamellia      FlowerType = "CAMELLIA"
	FlowerDelphinium    FlowerType = "DELPHINIUM"
)

func (f FlowerType) IsValid() bool {
	switch f {
	case FlowerFig, FlowerTulip, FlowerRose, FlowerCotton,
		FlowerChrysanthemum, FlowerSunflower, FlowerCamellia, FlowerDelphinium:
		return true
	}
	return false
}

// DurationDays is the fixed challenge window: day 0 through day 21.
const DurationDays = 22

// Participant is a denormalized snapshot captured at creation time, not a
// live reference. Nickname changes reach it only through the explicit
// rename propagation pass.
type Participant struct {
	UserNo   int64  `json:"userNo" db:"user_no"`
	Nickname string `json:"nickname" db:"nickname"`
}

type Challenge struct {
	ChallengeNo    int64       `json:"challengeNo" db:"challenge_no"`
	Name           string      `json:"name" db:"name"`
	Description    string      `json:"description" db:"description"`
	User1          Participant `json:"user1"` // creator
	User2          Participant `json:"user2"` // acceptor
	StartDate      time.Time   `json:"startDate" db:"start_date"`
	EndDate        time.Time   `json:"endDate" db:"end_date"`
	User1CommitCnt int         `json:"user1CommitCnt" db:"user1_commit_cnt"`
	User2CommitCnt int         `json:"user2CommitCnt" db:"user2_commit_cnt"`
	User1Flower    FlowerType  `json:"user1Flower" db:"user1_flower"`
	User2Flower    FlowerType  `json:"user2Flower" db:"user2_flower"`
	IsApproved     bool        `json:"isApproved" db:"is_approved"`
	IsFinished     bool        `json:"isFinished" db:"is_finished"`
	IsDeleted      bool        `json:"-" db:"is_deleted"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}

// HasParticipant reports whether userNo is one of the two partners.
func (c *Challenge) HasParticipant(userNo int64) bool {
	return c.User1.UserNo == userNo || c.User2.UserNo == userNo
}

// PartnerOf returns the other participant's snapshot.
func (c *Challenge) PartnerOf(userNo int64) (Participant, bool) {
	switch userNo {
	case c.User1.UserNo:
		return c.User2, true
	case c.User2.UserNo:
		return c.User1, true
	}
	return Participant{}, false
}

// CommitCountOf returns the tally for the given participant.
func (c *Challenge) CommitCountOf(userNo int64) int {
	switch userNo {
	case c.User1.UserNo:
		return c.User1CommitCnt
	case c.User2.UserNo:
		return c.User2CommitCnt
	}
	return 0
}
