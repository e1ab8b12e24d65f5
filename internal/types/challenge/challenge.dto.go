package challenge

import (
	"time"

	"plantPactAPI/internal/types/commit"
)

type CreateRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	User2Flower FlowerType `json:"user2Flower"`
	StartDate   time.Time  `json:"startDate"`
}

type ApproveRequest struct {
	User1Flower FlowerType `json:"user1Flower"`
}

// UpdateRequest is the closed set of patchable fields. Identity and
// participant snapshots are not representable here; the service rejects the
// startDate+endDate pair because each implies the other.
type UpdateRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// WithCommits is the detail view: the challenge plus both commit streams.
type WithCommits struct {
	Challenge
	User1CommitList []commit.Commit `json:"user1CommitList"`
	User2CommitList []commit.Commit `json:"user2CommitList"`
}

// HistoryEntry is one row of the history screen, tagged with the derived
// view state label.
type HistoryEntry struct {
	ChallengeNo    int64      `json:"challengeNo"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        time.Time  `json:"endDate"`
	User1CommitCnt int        `json:"user1CommitCnt"`
	User2CommitCnt int        `json:"user2CommitCnt"`
	User1Flower    FlowerType `json:"user1Flower"`
	User2Flower    FlowerType `json:"user2Flower"`
	User1No        int64      `json:"user1No"`
	User2No        int64      `json:"user2No"`
	ViewState      string     `json:"viewState"`
}
