package streak

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sadopc/streakr/internal/dayindex"
)

const offsetHint = "If the streak reset time doesn't line up with your timezone, set a streak hour offset in Settings."

// Describe renders the tooltip lines shown next to the streak counter.
// offsetSet is false when the user never configured an hour offset.
func Describe(s Summary, nowMillis int64, offsetHours int, offsetSet bool) []string {
	lines := []string{"Longest streak: " + Days(s.Longest)}
	if s.LastActive == nil {
		return lines
	}

	suffix := ""
	if offsetSet {
		sign := ""
		if offsetHours > 0 {
			sign = "+"
		}
		suffix = fmt.Sprintf(" (%s%d offset)", sign, offsetHours)
	}
	reset := Humanize(ResetIn(nowMillis, offsetHours))

	switch {
	case s.ClaimedToday:
		lines = append(lines, "Claimed today: yes", "Come back in: "+reset+suffix)
	case s.TimeUntilLapse != nil:
		lines = append(lines, "Claimed today: no", "Streak lost in: "+Humanize(*s.TimeUntilLapse)+suffix)
	default:
		lapsedAt := dayindex.RangeStart(*s.LastActive+2, offsetHours)
		ago := time.Duration(nowMillis-lapsedAt) * time.Millisecond
		lines = append(lines, "Streak lost "+Humanize(ago)+suffix+" ago")
	}

	if !offsetSet {
		lines = append(lines, "", offsetHint)
	}
	return lines
}

// Days formats a streak length.
func Days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// Humanize renders d in the single largest whole unit, rounded to nearest:
// "45 seconds", "3 hours", "2 days".
func Humanize(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	units := []struct {
		size time.Duration
		name string
	}{
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
		{time.Second, "second"},
	}
	for _, u := range units {
		if d >= u.size {
			n := int(math.Round(float64(d) / float64(u.size)))
			return plural(n, u.name)
		}
	}
	return plural(int(math.Round(d.Seconds())), "second")
}

func plural(n int, unit string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", n, unit)
	if n != 1 {
		b.WriteByte('s')
	}
	return b.String()
}
