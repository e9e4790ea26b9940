// Package calendar builds the activity grid: one cell per day, grouped into
// week columns with month header spans and a 0-4 intensity level per cell.
package calendar

import (
	"fmt"
	"time"

	"github.com/sadopc/streakr/internal/activity"
	"github.com/sadopc/streakr/internal/dayindex"
)

// MaxLevel is the intensity of the busiest day in a window.
const MaxLevel = 4

const labelLayout = "02 Jan 2006"

// Day is one grid cell. Padding cells only align the first and last week and
// never carry a count or label.
type Day struct {
	Index   int64
	Count   int
	Level   int
	Label   string
	Padding bool
}

// Week is one grid column, oldest day first.
type Week [7]Day

// Month labels a run of consecutive weeks.
type Month struct {
	Label    string
	Year     int
	Month    time.Month
	WeekSpan int
}

// Model is a fully derived calendar. Rebuild it when inputs change.
type Model struct {
	Days           []Day
	Weeks          []Week
	Months         []Month
	TotalCount     int
	FirstDayOfWeek time.Weekday
	Start, End     int64
}

// Empty reports whether the window holds no activity.
func (m Model) Empty() bool { return m.TotalCount == 0 }

// Builder carries presentation options for cell labels.
type Builder struct {
	// Unit names what is counted, singular ("session" when empty).
	Unit string
}

// Build is Builder{}.Build.
func Build(counts activity.Counts, w Window, firstDayOfWeek int) (Model, error) {
	return Builder{}.Build(counts, w, firstDayOfWeek)
}

// Build lays out counts over the window w.
func (b Builder) Build(counts activity.Counts, w Window, firstDayOfWeek int) (Model, error) {
	if firstDayOfWeek < 0 || firstDayOfWeek > 6 {
		return Model{}, fmt.Errorf("%w: first day of week %d", dayindex.ErrInvalidArgument, firstDayOfWeek)
	}
	start, end, err := w.Bounds()
	if err != nil {
		return Model{}, err
	}

	lead := (int(dayindex.Weekday(start)) - firstDayOfWeek + 7) % 7
	span := int(end - start + 1)
	trail := (7 - (lead+span)%7) % 7
	peak := counts.MaxIn(start, end)

	m := Model{
		Days:           make([]Day, 0, lead+span+trail),
		FirstDayOfWeek: time.Weekday(firstDayOfWeek),
		Start:          start,
		End:            end,
	}
	for i := lead; i > 0; i-- {
		m.Days = append(m.Days, Day{Index: start - int64(i), Padding: true})
	}
	for d := start; d <= end; d++ {
		n := counts.Get(d)
		m.Days = append(m.Days, Day{
			Index: d,
			Count: n,
			Level: level(n, peak),
			Label: b.label(d, n),
		})
		m.TotalCount += n
	}
	for i := 1; i <= trail; i++ {
		m.Days = append(m.Days, Day{Index: end + int64(i), Padding: true})
	}

	m.Weeks = make([]Week, 0, len(m.Days)/7)
	for i := 0; i < len(m.Days); i += 7 {
		var wk Week
		copy(wk[:], m.Days[i:i+7])
		m.Weeks = append(m.Weeks, wk)
	}
	m.Months = months(m.Weeks)
	return m, nil
}

// level maps a count to 0..MaxLevel relative to the window's peak.
func level(count, peak int) int {
	if count <= 0 || peak <= 0 {
		return 0
	}
	l := (count*MaxLevel + peak - 1) / peak
	return min(max(l, 1), MaxLevel)
}

func (b Builder) label(day int64, n int) string {
	unit := b.Unit
	if unit == "" {
		unit = "session"
	}
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%s: %d %s", dayindex.Date(day).Format(labelLayout), n, unit)
}

type monthKey struct {
	year  int
	month time.Month
}

// months attributes every week to the month holding most of its real days
// (ties go to the newer month) and run-length encodes the result.
func months(weeks []Week) []Month {
	var out []Month
	for _, wk := range weeks {
		key, ok := weekMonth(wk)
		if !ok {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Year == key.year && out[n-1].Month == key.month {
			out[n-1].WeekSpan++
			continue
		}
		out = append(out, Month{
			Label:    key.month.String()[:3],
			Year:     key.year,
			Month:    key.month,
			WeekSpan: 1,
		})
	}
	return out
}

func weekMonth(wk Week) (monthKey, bool) {
	var keys [2]monthKey
	var tally [2]int
	seen := 0
	for _, d := range wk {
		if d.Padding {
			continue
		}
		date := dayindex.Date(d.Index)
		k := monthKey{date.Year(), date.Month()}
		switch {
		case seen > 0 && keys[seen-1] == k:
			tally[seen-1]++
		case seen < 2:
			keys[seen] = k
			tally[seen] = 1
			seen++
		}
	}
	switch seen {
	case 0:
		return monthKey{}, false
	case 1:
		return keys[0], true
	}
	if tally[1] >= tally[0] {
		return keys[1], true
	}
	return keys[0], true
}

// WeekdayLabels returns one label per grid row starting at firstDayOfWeek,
// naming every other row so the column stays readable.
func WeekdayLabels(firstDayOfWeek int) []string {
	labels := make([]string, 7)
	for i := range labels {
		if i%2 != firstDayOfWeek%2 {
			labels[i] = time.Weekday((firstDayOfWeek + i) % 7).String()
		}
	}
	return labels
}
