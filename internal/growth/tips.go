package growth

// TipMessage is one entry of the fixed encouragement/warning ladder shown
// under the growth diary.
type TipMessage string

// CommitTips is the growth ladder, indexed by capped success count. Stage 0
// exists so the selector is total even before the first in-window success.
var CommitTips = [17]TipMessage{
	"The seed is planted. Your first check-in will wake it up!",
	"A tiny sprout broke through! One day down.",
	"Two check-ins in. The sprout is standing on its own.",
	"Three days of care. A first leaf is unfolding.",
	"Four check-ins! The stem is getting sturdier.",
	"Five days in. Your plant is reaching for the light.",
	"Six check-ins. New leaves every time you show up.",
	"A whole week of care! The plant loves the routine.",
	"Eight days strong. Buds are starting to form.",
	"Nine check-ins. The buds are swelling up.",
	"Ten days! Halfway to a garden.",
	"Eleven check-ins. A hint of color in the buds.",
	"Twelve days of care. The first petal is peeking out.",
	"Thirteen check-ins. The bloom is almost ready.",
	"Fourteen days! The flower is opening up.",
	"Fifteen check-ins. It's nearly in full bloom.",
	"Sixteen days of care. Your flower is fully grown!",
}

// FailTips is the discouragement ladder, indexed by tier. Tier 4 is the
// terminal warning used once more than six days have failed.
var FailTips = [5]TipMessage{
	"Water your plant with a check-in today!",
	"The leaves are drooping a little. Time to check in?",
	"Your plant misses you. A check-in would perk it right up.",
	"Two more missed days and the flower may not bloom.",
	"The plant is about to wilt for good. It needs you today.",
}

const maxCommitStage = 16
const maxFailCount = 6

// SelectTip picks the diary tip from the fixed ladders.
//
// More than six failed days is terminal regardless of recent activity.
// Otherwise recent activity selects the growth stage min(16, successCount),
// and its absence selects discouragement tier (min(failCount, 6)+1)/2.
func SelectTip(statuses []DayStatus, recentActivity bool) TipMessage {
	successCount := Count(statuses, Success)
	failCount := Count(statuses, Fail)

	if failCount > maxFailCount {
		return FailTips[4]
	}

	if recentActivity {
		stage := successCount
		if stage > maxCommitStage {
			stage = maxCommitStage
		}
		return CommitTips[stage]
	}

	tier := failCount
	if tier > maxFailCount {
		tier = maxFailCount
	}
	return FailTips[(tier+1)/2]
}

// StageOf returns the growth stage of a commit tip, or -1 when the tip is
// not part of the growth ladder. Used by tests to check monotonicity.
func StageOf(tip TipMessage) int {
	for i, t := range CommitTips {
		if t == tip {
			return i
		}
	}
	return -1
}
