package streak

import "time"

// State is the streak portion of a student's record. LastUpdated carries
// date granularity only.
type State struct {
	Streak        int
	LongestStreak int
	LastUpdated   *time.Time
}

// Delta tells the caller which histogram bucket to increment and by how
// much. The histogram itself lives with the user record.
type Delta struct {
	Day       string
	Increment int
}

// DayKey formats a time as the calendar-date histogram key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Advance applies one qualifying activity to the state. It is pure: every
// caller that records an activity (challenge solve, learning activity,
// project contribution) goes through this one transition.
//
// Same-day repeat activity leaves the streak unchanged but still yields a
// histogram increment, so multiple events per day inflate totals only.
func Advance(s State, today time.Time, increment int) (State, Delta) {
	if increment <= 0 {
		increment = 1
	}
	day := truncateToDay(today)

	switch {
	case s.LastUpdated == nil:
		s.Streak = 1
	case sameDay(*s.LastUpdated, day):
		// streak unchanged
	case sameDay(s.LastUpdated.AddDate(0, 0, 1), day):
		s.Streak++
	default:
		s.Streak = 1
	}

	if s.Streak > s.LongestStreak {
		s.LongestStreak = s.Streak
	}
	s.LastUpdated = &day

	return s, Delta{Day: DayKey(day), Increment: increment}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
