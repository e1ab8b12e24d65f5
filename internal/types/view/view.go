package view

import (
	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/internal/types/commit"
	"plantPactAPI/internal/types/user"
)

// HomeState is the derived, never-persisted phase of the most recent
// challenge relative to a specific viewer.
type HomeState string

const (
	BeforeCreate               HomeState = "BEFORE_CREATE"
	BeforeMyApprove            HomeState = "BEFORE_MY_APPROVE"
	BeforePartnerApprove       HomeState = "BEFORE_PARTNER_APPROVE"
	ExpiredByNotApproved       HomeState = "EXPIRED_BY_NOT_APPROVED"
	ApprovedButBeforeStartDate HomeState = "APPROVED_BUT_BEFORE_START_DATE"
	InProgress                 HomeState = "IN_PROGRESS"
	Complete                   HomeState = "COMPLETE"
)

type HomeResponse struct {
	ViewState        HomeState            `json:"viewState"`
	ChallengeTotal   int                  `json:"challengeTotal"`
	OnGoingChallenge *challenge.Challenge `json:"onGoingChallenge"`
	MyInfo           user.Profile         `json:"myInfo"`
	MyCommit         *commit.Commit       `json:"myCommit"`
	PartnerInfo      user.Profile         `json:"partnerInfo"`
	PartnerCommit    *commit.Commit       `json:"partnerCommit"`
	MyStingCnt       int                  `json:"myStingCnt"`
}
