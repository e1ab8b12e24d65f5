package utils

import (
	"testing"
	"time"
)

func TestStartAndEndOfDay(t *testing.T) {
	loc := time.UTC
	at := time.Date(2024, 1, 1, 13, 45, 12, 0, loc)

	start := StartOfDay(at, loc)
	if !start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("unexpected start of day: %v", start)
	}

	end := EndOfDay(at, loc)
	if !end.Before(time.Date(2024, 1, 2, 0, 0, 0, 0, loc)) {
		t.Errorf("end of day leaked into the next day: %v", end)
	}
	if end.Day() != 1 || end.Hour() != 23 || end.Minute() != 59 {
		t.Errorf("unexpected end of day: %v", end)
	}
}

func TestSameDayAcrossZones(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2024-01-01 23:00 UTC is already 2024-01-02 in Seoul.
	a := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)

	if SameDay(a, b, time.UTC) {
		t.Error("expected different UTC days")
	}
	if !SameDay(a, b, seoul) {
		t.Error("expected same Seoul day")
	}
}

func TestDayKey(t *testing.T) {
	at := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	if got := DayKey(at, time.UTC); got != "2024-03-05" {
		t.Errorf("DayKey = %q", got)
	}
}
