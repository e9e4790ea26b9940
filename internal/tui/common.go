package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewActivity viewState = iota
	viewSession
	viewReports
	viewSettings
)

var viewNames = []string{"Activity", "Session", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type sessionRecordedMsg struct {
	session *store.Session
}

type sessionUndoneMsg struct {
	session *store.Session
}

type settingsSavedMsg struct{}

type lapseTickMsg time.Time

type lapseCheckedMsg struct {
	sent bool
	err  error
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// sameSelection reports whether a and b are the same selector entry. A
// rolling window matches any other rolling window since its anchor moves
// with the clock.
func sameSelection(a, b calendar.Window) bool {
	if a.Mode != b.Mode {
		return false
	}
	return a.Mode != calendar.ModeYear || a.Year == b.Year
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatClock renders a countdown as mm:ss.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
