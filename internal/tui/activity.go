package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/ledger"
)

const (
	cellWidth  = 2
	labelWidth = 4
)

type activityModel struct {
	ledger *ledger.Service
	now    func() time.Time
	width  int
	height int

	options  []ledger.YearOption
	selected int

	cal    calendar.Model
	streak ledger.StreakView
	loaded bool
	err    error
}

func newActivityModel(l *ledger.Service) activityModel {
	return activityModel{
		ledger: l,
		now:    time.Now,
	}
}

func (a activityModel) Init() tea.Cmd {
	return a.loadData()
}

func (a *activityModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

type activityDataMsg struct {
	options []ledger.YearOption
	window  calendar.Window
	cal     calendar.Model
	streak  ledger.StreakView
	err     error
}

func (a activityModel) loadData() tea.Cmd {
	l, selected, now := a.ledger, a.selected, a.now()
	return func() tea.Msg {
		opts, err := l.YearOptions(now, 0)
		if err != nil {
			return activityDataMsg{err: err}
		}
		selected = min(max(selected, 0), len(opts)-1)
		w := opts[selected].Window

		cal, err := l.Calendar(w)
		if err != nil {
			return activityDataMsg{options: opts, window: w, err: err}
		}
		v, err := l.Streak(now)
		if err != nil {
			return activityDataMsg{options: opts, window: w, err: err}
		}
		return activityDataMsg{options: opts, window: w, cal: cal, streak: v}
	}
}

// window is the calendar window currently on screen, if any has loaded.
func (a activityModel) window() (calendar.Window, bool) {
	if a.selected < len(a.options) {
		return a.options[a.selected].Window, true
	}
	return calendar.Window{}, false
}

func (a activityModel) update(msg tea.Msg) (activityModel, tea.Cmd) {
	switch msg := msg.(type) {
	case activityDataMsg:
		// Drop loads for a period that is no longer selected.
		if cur, ok := a.window(); ok && msg.options != nil && !sameSelection(cur, msg.window) {
			return a, nil
		}
		a.err = msg.err
		if msg.options != nil {
			a.options = msg.options
			a.selected = min(max(a.selected, 0), len(a.options)-1)
		}
		if msg.err == nil {
			a.cal = msg.cal
			a.streak = msg.streak
			a.loaded = true
		}
		return a, nil

	case tea.KeyMsg:
		if len(a.options) < 2 {
			return a, nil
		}
		switch {
		case key.Matches(msg, keys.Left):
			a.selected = (a.selected + 1) % len(a.options)
			return a, a.loadData()
		case key.Matches(msg, keys.Right):
			a.selected = (a.selected - 1 + len(a.options)) % len(a.options)
			return a, a.loadData()
		}
	}
	return a, nil
}

func (a activityModel) view() string {
	w := a.width - 4

	if a.err != nil {
		return panelStyle.Width(w).Render(errorStyle.Render("Error: " + a.err.Error()))
	}
	if !a.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading activity..."))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Activity"), "  ", a.renderSelector(),
	)

	rows := []string{header, ""}
	rows = append(rows, a.renderGrid(w-6)...)
	rows = append(rows, "", a.renderLegend(), "", a.renderTotal())
	if a.cal.Empty() {
		rows = append(rows, mutedStyle.Render("No data found."))
	}
	if block := a.renderStreak(); len(block) > 0 {
		rows = append(rows, "")
		rows = append(rows, block...)
	}
	if note := a.renderOffsetNote(); note != "" {
		rows = append(rows, "", note)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a activityModel) renderSelector() string {
	if len(a.options) == 0 {
		return ""
	}
	label := highlightStyle.Render(a.options[a.selected].Label)
	if len(a.options) < 2 {
		return label
	}
	return mutedStyle.Render("◀ ") + label + mutedStyle.Render(" ▶")
}

// renderGrid draws the month header, weekday labels and one column per
// week. When the panel is too narrow the oldest weeks are dropped.
func (a activityModel) renderGrid(width int) []string {
	weeks := a.cal.Weeks
	fit := max((width-labelWidth)/cellWidth, 1)
	first := max(len(weeks)-fit, 0)
	visible := weeks[first:]

	lines := make([]string, 0, 8)
	lines = append(lines, strings.Repeat(" ", labelWidth)+monthHeader(a.cal.Months, first, len(visible)))

	labels := calendar.WeekdayLabels(int(a.cal.FirstDayOfWeek))
	for row := 0; row < 7; row++ {
		var b strings.Builder
		name := labels[row]
		if len(name) > 3 {
			name = name[:3]
		}
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s", labelWidth, name)))
		for _, wk := range visible {
			d := wk[row]
			if d.Padding {
				b.WriteString(strings.Repeat(" ", cellWidth))
				continue
			}
			b.WriteString(levelStyle(d.Level).Render("■"))
			b.WriteString(strings.Repeat(" ", cellWidth-1))
		}
		lines = append(lines, b.String())
	}
	return lines
}

// monthHeader places each month label over its first visible week. Labels
// are skipped for months with less than two visible weeks.
func monthHeader(months []calendar.Month, first, count int) string {
	line := []rune(strings.Repeat(" ", count*cellWidth))
	week := 0
	for _, m := range months {
		start, end := max(week, first), week+m.WeekSpan
		week = end
		if end-start < 2 {
			continue
		}
		col := (start - first) * cellWidth
		for i, r := range []rune(m.Label) {
			if col+i < len(line) {
				line[col+i] = r
			}
		}
	}
	return mutedStyle.Render(strings.TrimRight(string(line), " "))
}

func (a activityModel) renderLegend() string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render("Less "))
	for l := 0; l <= calendar.MaxLevel; l++ {
		b.WriteString(levelStyle(l).Render("■"))
		b.WriteString(" ")
	}
	b.WriteString(mutedStyle.Render("More"))
	return b.String()
}

func (a activityModel) renderTotal() string {
	unit := a.streak.Prefs.Unit
	if unit == "" {
		unit = "session"
	}
	period := "in the last year"
	if w, ok := a.window(); ok && w.Mode == calendar.ModeYear {
		period = fmt.Sprintf("in %d", w.Year)
	}
	return titleStyle.Render(plural(a.cal.TotalCount, unit)) + mutedStyle.Render(" "+period)
}

// renderStreak shows the streak block only once a streak spans two days.
func (a activityModel) renderStreak() []string {
	s := a.streak.Summary
	if s.Current <= 1 {
		return nil
	}
	lines := []string{successStyle.Bold(true).Render(fmt.Sprintf("Current streak: %s", plural(s.Current, "day")))}
	for _, l := range a.streak.Lines {
		lines = append(lines, mutedStyle.Render(l))
	}
	return lines
}

func (a activityModel) renderOffsetNote() string {
	p := a.streak.Prefs
	if !p.OffsetSet {
		return ""
	}
	hour := ((-p.Offset)%24 + 24) % 24
	return mutedStyle.Render(fmt.Sprintf("Days roll over at %02d:00 UTC (streak hour offset %+d).", hour, p.Offset))
}
