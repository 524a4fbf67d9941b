package streak_test

import (
	"testing"
	"time"

	"codequest/internal/streak"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAdvanceTransitions(t *testing.T) {
	t.Parallel()
	jan1 := date("2024-01-01")

	tests := []struct {
		name        string
		state       streak.State
		today       time.Time
		wantStreak  int
		wantLongest int
	}{
		{
			name:        "first ever activity",
			state:       streak.State{},
			today:       jan1,
			wantStreak:  1,
			wantLongest: 1,
		},
		{
			name:        "same day holds streak",
			state:       streak.State{Streak: 4, LongestStreak: 4, LastUpdated: &jan1},
			today:       jan1,
			wantStreak:  4,
			wantLongest: 4,
		},
		{
			name:        "next day increments",
			state:       streak.State{Streak: 4, LongestStreak: 4, LastUpdated: &jan1},
			today:       date("2024-01-02"),
			wantStreak:  5,
			wantLongest: 5,
		},
		{
			name:        "one missed day resets",
			state:       streak.State{Streak: 5, LongestStreak: 5, LastUpdated: &jan1},
			today:       date("2024-01-03"),
			wantStreak:  1,
			wantLongest: 5,
		},
		{
			name:        "long gap resets",
			state:       streak.State{Streak: 9, LongestStreak: 12, LastUpdated: &jan1},
			today:       date("2024-03-01"),
			wantStreak:  1,
			wantLongest: 12,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, delta := streak.Advance(tc.state, tc.today, 1)
			if got.Streak != tc.wantStreak {
				t.Fatalf("streak: got %d, want %d", got.Streak, tc.wantStreak)
			}
			if got.LongestStreak != tc.wantLongest {
				t.Fatalf("longest: got %d, want %d", got.LongestStreak, tc.wantLongest)
			}
			if got.LastUpdated == nil || streak.DayKey(*got.LastUpdated) != streak.DayKey(tc.today) {
				t.Fatalf("lastUpdated not normalized to today: %v", got.LastUpdated)
			}
			if delta.Day != streak.DayKey(tc.today) || delta.Increment != 1 {
				t.Fatalf("unexpected delta: %+v", delta)
			}
		})
	}
}

func TestAdvanceSameDayAccumulatesHistogramOnly(t *testing.T) {
	t.Parallel()
	histogram := map[string]int{}

	s := streak.State{}
	today := date("2024-06-10")

	s, d := streak.Advance(s, today, 1)
	histogram[d.Day] += d.Increment
	s, d = streak.Advance(s, today, 3)
	histogram[d.Day] += d.Increment

	if s.Streak != 1 {
		t.Fatalf("same-day re-activity must not grow the streak, got %d", s.Streak)
	}
	if histogram["2024-06-10"] != 4 {
		t.Fatalf("histogram must accumulate increments, got %d", histogram["2024-06-10"])
	}
}

func TestAdvanceDefaultsIncrementToOne(t *testing.T) {
	t.Parallel()
	_, d := streak.Advance(streak.State{}, date("2024-06-10"), 0)
	if d.Increment != 1 {
		t.Fatalf("zero increment must default to 1, got %d", d.Increment)
	}
}

func TestAdvanceIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()
	lateMonday := time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	earlyTuesday := time.Date(2024, 6, 11, 0, 1, 0, 0, time.UTC)

	s, _ := streak.Advance(streak.State{}, lateMonday, 1)
	s, _ = streak.Advance(s, earlyTuesday, 1)
	if s.Streak != 2 {
		t.Fatalf("consecutive calendar days must chain regardless of clock time, got %d", s.Streak)
	}
}
