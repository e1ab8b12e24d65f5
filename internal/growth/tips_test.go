package growth

import "testing"

func statusesWith(success, fail int) []DayStatus {
	statuses := make([]DayStatus, 0, success+fail)
	for i := 0; i < success; i++ {
		statuses = append(statuses, Success)
	}
	for i := 0; i < fail; i++ {
		statuses = append(statuses, Fail)
	}
	return statuses
}

func TestTipLaddersAreFullyPopulated(t *testing.T) {
	for i, tip := range CommitTips {
		if tip == "" {
			t.Errorf("CommitTips[%d] is empty", i)
		}
	}
	for i, tip := range FailTips {
		if tip == "" {
			t.Errorf("FailTips[%d] is empty", i)
		}
	}
}

func TestSelectTipGrowthStageMonotonic(t *testing.T) {
	prev := -1
	for success := 0; success <= 16; success++ {
		tip := SelectTip(statusesWith(success, 0), true)
		stage := StageOf(tip)
		if stage < 0 {
			t.Fatalf("successCount=%d selected a non-growth tip %q", success, tip)
		}
		if stage < prev {
			t.Errorf("stage decreased from %d to %d at successCount=%d", prev, stage, success)
		}
		prev = stage
	}
}

func TestSelectTipCapsAtStage16(t *testing.T) {
	tip := SelectTip(statusesWith(20, 0), true)
	if tip != CommitTips[16] {
		t.Errorf("successCount beyond 16 should stay at the fully-grown tip, got %q", tip)
	}
}

func TestSelectTipTerminalFailureWinsOverRecentActivity(t *testing.T) {
	statuses := statusesWith(3, 7)
	if tip := SelectTip(statuses, true); tip != FailTips[4] {
		t.Errorf("failCount>6 with recent activity: got %q, want terminal warning", tip)
	}
	if tip := SelectTip(statuses, false); tip != FailTips[4] {
		t.Errorf("failCount>6 without recent activity: got %q, want terminal warning", tip)
	}
}

func TestSelectTipDiscouragementTiers(t *testing.T) {
	cases := []struct {
		failCount int
		wantTier  int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{6, 3},
	}
	for _, tc := range cases {
		tip := SelectTip(statusesWith(0, tc.failCount), false)
		if tip != FailTips[tc.wantTier] {
			t.Errorf("failCount=%d: got %q, want tier %d", tc.failCount, tip, tc.wantTier)
		}
	}
}
