package streak

import (
	"testing"
	"time"

	"github.com/sadopc/streakr/internal/activity"
	"github.com/sadopc/streakr/internal/dayindex"
	"github.com/stretchr/testify/assert"
)

func TestDescribeClaimed(t *testing.T) {
	now := 10*day + 4*dayindex.MillisPerHour
	s := Evaluate(sample(), now, 0)
	lines := Describe(s, now, 0, true)
	assert.Equal(t, []string{
		"Longest streak: 3 days",
		"Claimed today: yes",
		"Come back in: 20 hours (0 offset)",
	}, lines)
}

func TestDescribeAtRiskWithOffset(t *testing.T) {
	now := 11*day + 20*dayindex.MillisPerHour
	s := Evaluate(sample(), now, 2)
	lines := Describe(s, now, 2, true)
	assert.Equal(t, []string{
		"Longest streak: 3 days",
		"Claimed today: no",
		"Streak lost in: 2 hours (+2 offset)",
	}, lines)
}

func TestDescribeLapsedWithoutOffset(t *testing.T) {
	now := 12*day + 3*dayindex.MillisPerHour
	s := Evaluate(sample(), now, 0)
	lines := Describe(s, now, 0, false)
	assert.Equal(t, []string{
		"Longest streak: 3 days",
		"Streak lost 3 hours ago",
		"",
		offsetHint,
	}, lines)
}

func TestDescribeNoActivity(t *testing.T) {
	s := Evaluate(activity.Counts{}, day, 0)
	assert.Equal(t, []string{"Longest streak: 0 days"}, Describe(s, day, 0, false))
}

func TestDays(t *testing.T) {
	assert.Equal(t, "1 day", Days(1))
	assert.Equal(t, "0 days", Days(0))
	assert.Equal(t, "12 days", Days(12))
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 seconds"},
		{time.Second, "1 second"},
		{45 * time.Second, "45 seconds"},
		{90 * time.Second, "2 minutes"},
		{time.Hour, "1 hour"},
		{5*time.Hour + 40*time.Minute, "6 hours"},
		{36 * time.Hour, "2 days"},
		{-3 * time.Minute, "3 minutes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Humanize(tt.d), tt.d.String())
	}
}
