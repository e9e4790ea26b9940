// Package streak evaluates consecutive-day activity runs relative to "now" in
// the user's shifted day.
package streak

import (
	"time"

	"github.com/sadopc/streakr/internal/activity"
	"github.com/sadopc/streakr/internal/dayindex"
)

// Summary is the streak state at one instant.
type Summary struct {
	Current      int
	Longest      int
	ClaimedToday bool
	// TimeUntilLapse is set only while the streak is alive but today has no
	// activity yet.
	TimeUntilLapse *time.Duration
	// JustLapsed is true on the first day after the grace day expired.
	JustLapsed bool

	Today      int64
	LastActive *int64
}

// Alive reports whether the current streak has not been broken.
func (s Summary) Alive() bool { return s.Current > 0 }

// Evaluate computes the streak summary for counts at nowMillis.
// Days after today never extend the current streak.
func Evaluate(counts activity.Counts, nowMillis int64, offsetHours int) Summary {
	today := dayindex.ToDayIndex(nowMillis, offsetHours)
	s := Summary{
		Today:   today,
		Longest: Longest(counts),
	}

	last, ok := counts.LastActive(today)
	if !ok {
		return s
	}
	s.LastActive = &last
	s.ClaimedToday = last == today

	if last < today-1 {
		s.JustLapsed = last == today-2
		return s
	}

	for d := last; counts.Get(d) > 0; d-- {
		s.Current++
	}

	if !s.ClaimedToday {
		left := time.Duration(dayindex.RangeStart(today+1, offsetHours)-nowMillis) * time.Millisecond
		s.TimeUntilLapse = &left
	}
	return s
}

// Longest is the longest run of consecutive active days anywhere in counts.
func Longest(counts activity.Counts) int {
	best, run := 0, 0
	var prev int64
	for i, d := range counts.Days() {
		if i > 0 && d == prev+1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
		prev = d
	}
	return best
}

// ResetIn is the time left until the user day containing nowMillis ends.
func ResetIn(nowMillis int64, offsetHours int) time.Duration {
	today := dayindex.ToDayIndex(nowMillis, offsetHours)
	return time.Duration(dayindex.RangeStart(today+1, offsetHours)-nowMillis) * time.Millisecond
}
