package ledger

import (
	"strconv"
	"time"

	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/dayindex"
)

// YearOption is one entry of the calendar year selector.
type YearOption struct {
	Label  string
	Window calendar.Window
}

// YearOptions lists "Last 12 months" followed by every calendar year from
// the first recorded session up to the current year, newest first. A
// positive limit caps the number of calendar years offered.
func (s *Service) YearOptions(now time.Time, limit int) ([]YearOption, error) {
	p, err := s.Prefs()
	if err != nil {
		return nil, err
	}
	today := dayindex.FromTime(now, p.Offset)
	opts := []YearOption{{Label: "Last 12 months", Window: calendar.Rolling(today)}}

	current := dayindex.Date(today).Year()
	first := current
	at, err := s.src.FirstSessionAt()
	if err != nil {
		return nil, err
	}
	if at != nil {
		if y := dayindex.Date(dayindex.FromTime(*at, p.Offset)).Year(); y < first {
			first = y
		}
	}

	for y := current; y >= first; y-- {
		if limit > 0 && current-y >= limit {
			break
		}
		opts = append(opts, YearOption{Label: strconv.Itoa(y), Window: calendar.Year(y)})
	}
	return opts, nil
}
