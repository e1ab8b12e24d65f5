package growth

import (
	"testing"
	"time"

	"plantPactAPI/internal/types/challenge"
)

var utc = time.UTC

func day(start time.Time, n int, hour int) time.Time {
	return start.AddDate(0, 0, n).Add(time.Duration(hour) * time.Hour)
}

func TestComputeAlwaysReturns22Entries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, utc)

	cases := []struct {
		name    string
		commits []time.Time
		now     time.Time
	}{
		{"no commits", nil, start},
		{"sparse commits", []time.Time{day(start, 0, 9), day(start, 10, 9)}, day(start, 12, 9)},
		{"commits outside the window", []time.Time{start.AddDate(0, 0, -3), start.AddDate(0, 0, 40)}, day(start, 5, 1)},
		{"evaluated long after the end", []time.Time{day(start, 2, 9)}, start.AddDate(0, 2, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			statuses, _ := Compute(start, tc.now, tc.commits, utc)
			if len(statuses) != challenge.DurationDays {
				t.Fatalf("got %d entries, want %d", len(statuses), challenge.DurationDays)
			}
		})
	}
}

func TestComputeDaySixScenario(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, utc)
	commits := []time.Time{
		day(start, 0, 8),
		day(start, 1, 21),
		day(start, 3, 12),
		day(start, 4, 7),
	}
	now := day(start, 6, 10)

	statuses, recent := Compute(start, now, commits, utc)

	want := map[int]DayStatus{
		0: Success, 1: Success, 2: Fail, 3: Success, 4: Success, 5: Fail,
	}
	for i, s := range statuses {
		expected, ok := want[i]
		if !ok {
			expected = NotCommit
		}
		if s != expected {
			t.Errorf("day %d: got %s, want %s", i, s, expected)
		}
	}

	if got := Count(statuses, Success); got != 4 {
		t.Errorf("successCount = %d, want 4", got)
	}
	if got := Count(statuses, Fail); got != 2 {
		t.Errorf("failCount = %d, want 2", got)
	}
	if recent {
		t.Error("recentActivity should be false with no commit on day 5 or 6")
	}

	// failCount 2 maps to discouragement tier (2+1)/2 = 1.
	if tip := SelectTip(statuses, recent); tip != FailTips[1] {
		t.Errorf("tip = %q, want tier-1 warning %q", tip, FailTips[1])
	}
}

func TestComputeTodayStaysNotCommitUntilCommitted(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, utc)
	now := day(start, 3, 15) // mid-afternoon of day 3

	statuses, _ := Compute(start, now, nil, utc)
	if statuses[2] != Fail {
		t.Errorf("yesterday should be FAIL, got %s", statuses[2])
	}
	if statuses[3] != NotCommit {
		t.Errorf("today without a commit should be NOT_COMMIT, got %s", statuses[3])
	}

	statuses, _ = Compute(start, now, []time.Time{day(start, 3, 9)}, utc)
	if statuses[3] != Success {
		t.Errorf("today with a commit should be SUCCESS, got %s", statuses[3])
	}
}

func TestComputeRecentActivityWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, utc)
	now := day(start, 6, 10)

	_, recent := Compute(start, now, []time.Time{day(start, 5, 23)}, utc)
	if !recent {
		t.Error("commit yesterday should count as recent activity")
	}

	_, recent = Compute(start, now, []time.Time{day(start, 6, 1)}, utc)
	if !recent {
		t.Error("commit today should count as recent activity")
	}

	_, recent = Compute(start, now, []time.Time{day(start, 4, 12)}, utc)
	if recent {
		t.Error("commit two days ago should not count as recent activity")
	}
}

func TestComputeOutOfWindowCommitsIgnored(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, utc)
	now := day(start, 2, 12)
	commits := []time.Time{start.AddDate(0, 0, -1), start.AddDate(0, 0, 30)}

	statuses, _ := Compute(start, now, commits, utc)
	if got := Count(statuses, Success); got != 0 {
		t.Errorf("out-of-window commits produced %d SUCCESS days", got)
	}
}

func TestComputeDayBoundaryRespectsLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, seoul)
	// 16:00 UTC on Jan 1 is 01:00 Jan 2 in Seoul.
	commits := []time.Time{time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)}
	now := time.Date(2024, 1, 3, 12, 0, 0, 0, seoul)

	statuses, _ := Compute(start, now, commits, seoul)
	if statuses[0] != Fail {
		t.Errorf("day 0 in Seoul should be FAIL, got %s", statuses[0])
	}
	if statuses[1] != Success {
		t.Errorf("day 1 in Seoul should be SUCCESS, got %s", statuses[1])
	}
}
