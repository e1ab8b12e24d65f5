package growth

import (
	"time"

	"plantPactAPI/internal/types/challenge"
	"plantPactAPI/utils"
)

// DayStatus is the outcome of one diary day.
type DayStatus string

const (
	Success   DayStatus = "SUCCESS"
	Fail      DayStatus = "FAIL"
	NotCommit DayStatus = "NOT_COMMIT"
)

// Compute turns a challenge start date and a participant's commit timestamps
// into the 22-entry day-status sequence plus the recent-activity flag.
//
// A day is SUCCESS when any commit lands inside its 24-hour window, FAIL only
// once the whole day has elapsed without one, and NOT_COMMIT otherwise (today
// stays NOT_COMMIT until a commit arrives). Commits outside the window never
// change the sequence length. recentActivity is true when a commit falls in
// yesterday's or today's window, which is what picks the tip ladder.
func Compute(startDate, now time.Time, commitTimes []time.Time, loc *time.Location) ([]DayStatus, bool) {
	statuses := make([]DayStatus, 0, challenge.DurationDays)

	for i := 0; i < challenge.DurationDays; i++ {
		dayStart := utils.StartOfDay(startDate, loc).AddDate(0, 0, i)
		dayEnd := utils.EndOfDay(dayStart, loc)

		status := NotCommit
		switch {
		case anyWithin(commitTimes, dayStart, dayEnd):
			status = Success
		case dayEnd.Before(now):
			status = Fail
		}
		statuses = append(statuses, status)
	}

	yesterdayStart := utils.StartOfDay(now, loc).AddDate(0, 0, -1)
	todayEnd := utils.EndOfDay(now, loc)
	recentActivity := anyWithin(commitTimes, yesterdayStart, todayEnd)

	return statuses, recentActivity
}

func anyWithin(times []time.Time, start, end time.Time) bool {
	for _, t := range times {
		if !t.Before(start) && !t.After(end) {
			return true
		}
	}
	return false
}

// Count returns how many entries have the given status.
func Count(statuses []DayStatus, status DayStatus) int {
	n := 0
	for _, s := range statuses {
		if s == status {
			n++
		}
	}
	return n
}

// DiarySide is one participant's half of the growth diary response.
type DiarySide struct {
	Nickname     string      `json:"nickname"`
	TipMessage   TipMessage  `json:"tipMessage"`
	GrowthList   []DayStatus `json:"growthList"`
	SuccessCount int         `json:"successCount"`
}

// DiaryResponse carries both halves plus the challenge frame.
type DiaryResponse struct {
	ChallengeName      string    `json:"challengeName"`
	ChallengeStartDate time.Time `json:"challengeStartDate"`
	ChallengeEndDate   time.Time `json:"challengeEndDate"`
	My                 DiarySide `json:"my"`
	Partner            DiarySide `json:"partner"`
}
