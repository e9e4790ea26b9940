package calendar

import (
	"fmt"
	"strconv"

	"github.com/sadopc/streakr/internal/dayindex"
)

// RollingDays is the length of a rolling window.
const RollingDays = 364

type Mode int

const (
	ModeRolling Mode = iota
	ModeYear
)

// Window selects the inclusive range of days a calendar covers.
type Window struct {
	Mode   Mode
	Anchor int64 // last day of a rolling window
	Year   int
}

// Rolling covers the 364 days ending at anchor.
func Rolling(anchor int64) Window {
	return Window{Mode: ModeRolling, Anchor: anchor}
}

// RollingAt anchors a rolling window at the user day containing ms.
func RollingAt(ms int64, offsetHours int) Window {
	return Rolling(dayindex.ToDayIndex(ms, offsetHours))
}

// Year covers Jan 1 to Dec 31 of y.
func Year(y int) Window {
	return Window{Mode: ModeYear, Year: y}
}

// Bounds returns the first and last day of the window.
func (w Window) Bounds() (start, end int64, err error) {
	switch w.Mode {
	case ModeRolling:
		return w.Anchor - (RollingDays - 1), w.Anchor, nil
	case ModeYear:
		if w.Year < 1 || w.Year > 9999 {
			return 0, 0, fmt.Errorf("%w: year %d", dayindex.ErrInvalidArgument, w.Year)
		}
		return dayindex.FromDate(w.Year, 1, 1), dayindex.FromDate(w.Year, 12, 31), nil
	}
	return 0, 0, fmt.Errorf("%w: window mode %d", dayindex.ErrInvalidArgument, w.Mode)
}

func (w Window) String() string {
	if w.Mode == ModeYear {
		return "year:" + strconv.Itoa(w.Year)
	}
	return "rolling:" + strconv.FormatInt(w.Anchor, 10)
}
