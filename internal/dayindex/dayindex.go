// Package dayindex maps absolute timestamps onto "user days": whole days since
// the Unix epoch after shifting by a per-user hour offset.
package dayindex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MillisPerHour = int64(time.Hour / time.Millisecond)
	MillisPerDay  = 24 * MillisPerHour

	// Real-world UTC offsets span -12..+14.
	MinOffset = -12
	MaxOffset = 14
)

// ErrInvalidArgument is wrapped by every input validation failure in the
// ledger packages.
var ErrInvalidArgument = errors.New("invalid argument")

// ToDayIndex returns floor((ms + offsetHours*1h) / 24h). Any offset is accepted
// and treated as a linear shift.
func ToDayIndex(ms int64, offsetHours int) int64 {
	return floorDiv(ms+int64(offsetHours)*MillisPerHour, MillisPerDay)
}

// RangeStart returns the absolute millisecond at which the given user day
// begins. Day d covers [RangeStart(d), RangeStart(d+1)).
func RangeStart(day int64, offsetHours int) int64 {
	return day*MillisPerDay - int64(offsetHours)*MillisPerHour
}

// FromTime is ToDayIndex for a time.Time.
func FromTime(t time.Time, offsetHours int) int64 {
	return ToDayIndex(t.UnixMilli(), offsetHours)
}

// FromDate returns the index of a calendar date. The offset is already folded
// into a user day, so calendar dates map to indexes independently of it.
func FromDate(year int, month time.Month, day int) int64 {
	return floorDiv(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).UnixMilli(), MillisPerDay)
}

// Date returns the calendar date of a user day as UTC midnight.
func Date(day int64) time.Time {
	return time.UnixMilli(day * MillisPerDay).UTC()
}

// Weekday of a user day. Day 0 (1970-01-01) was a Thursday.
func Weekday(day int64) time.Weekday {
	return time.Weekday(floorMod(day+int64(time.Thursday), 7))
}

// ValidateOffset reports whether offsetHours is a real-world UTC offset.
func ValidateOffset(offsetHours int) error {
	if offsetHours < MinOffset || offsetHours > MaxOffset {
		return fmt.Errorf("%w: hour offset %d outside %d..%d", ErrInvalidArgument, offsetHours, MinOffset, MaxOffset)
	}
	return nil
}

// ParseOffset parses a stored hour offset. An empty value means no offset was
// ever configured and is treated as 0.
func ParseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, fmt.Errorf("%w: hour offset %q", ErrInvalidArgument, s)
	}
	return n, nil
}

// ParseKey accepts either a decimal day index or an ISO date (2006-01-02).
func ParseKey(key string) (int64, error) {
	key = strings.TrimSpace(key)
	if n, err := strconv.ParseInt(key, 10, 64); err == nil {
		return n, nil
	}
	t, err := time.Parse(time.DateOnly, key)
	if err != nil {
		return 0, fmt.Errorf("%w: day key %q", ErrInvalidArgument, key)
	}
	return FromDate(t.Year(), t.Month(), t.Day()), nil
}

// FormatKey renders a day index as an ISO date.
func FormatKey(day int64) string {
	return Date(day).Format(time.DateOnly)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
