// Package activity holds the per-day session counts the calendar and streak
// evaluators read from.
package activity

import (
	"fmt"
	"slices"

	"github.com/sadopc/streakr/internal/dayindex"
)

// Counts maps a day index to the number of sessions completed that day.
// The zero value is an empty, usable set. Counts is never mutated after
// construction, so it can be shared between goroutines.
type Counts struct {
	byDay map[int64]int
}

// NewCounts copies m. Negative counts are rejected; zero counts are dropped.
func NewCounts(m map[int64]int) (Counts, error) {
	byDay := make(map[int64]int, len(m))
	for day, n := range m {
		if n < 0 {
			return Counts{}, fmt.Errorf("%w: negative count %d on day %d", dayindex.ErrInvalidArgument, n, day)
		}
		if n > 0 {
			byDay[day] = n
		}
	}
	return Counts{byDay: byDay}, nil
}

// FromDateKeys builds Counts from keys that are either day indexes or ISO dates.
// Keys resolving to the same day are summed.
func FromDateKeys(m map[string]int) (Counts, error) {
	byDay := make(map[int64]int, len(m))
	for key, n := range m {
		day, err := dayindex.ParseKey(key)
		if err != nil {
			return Counts{}, err
		}
		if n < 0 {
			return Counts{}, fmt.Errorf("%w: negative count %d on %q", dayindex.ErrInvalidArgument, n, key)
		}
		byDay[day] += n
	}
	return NewCounts(byDay)
}

// MustCounts is NewCounts for literals known to be valid.
func MustCounts(m map[int64]int) Counts {
	c, err := NewCounts(m)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Counts) Get(day int64) int { return c.byDay[day] }

// Len is the number of days with activity.
func (c Counts) Len() int { return len(c.byDay) }

// Days returns the active days in ascending order.
func (c Counts) Days() []int64 {
	days := make([]int64, 0, len(c.byDay))
	for d := range c.byDay {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

func (c Counts) Total() int {
	total := 0
	for _, n := range c.byDay {
		total += n
	}
	return total
}

// MaxIn returns the highest count within [start, end].
func (c Counts) MaxIn(start, end int64) int {
	best := 0
	if end-start+1 < int64(len(c.byDay)) {
		for d := start; d <= end; d++ {
			best = max(best, c.byDay[d])
		}
		return best
	}
	for d, n := range c.byDay {
		if d >= start && d <= end {
			best = max(best, n)
		}
	}
	return best
}

// LastActive returns the latest active day not after upTo.
func (c Counts) LastActive(upTo int64) (int64, bool) {
	var last int64
	found := false
	for d := range c.byDay {
		if d <= upTo && (!found || d > last) {
			last, found = d, true
		}
	}
	return last, found
}
