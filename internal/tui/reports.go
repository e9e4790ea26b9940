package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/dayindex"
	"github.com/sadopc/streakr/internal/ledger"
	"github.com/sadopc/streakr/internal/store"
)

const recentLimit = 10

// monthTotal aggregates the real days of one calendar month.
type monthTotal struct {
	year   int
	month  time.Month
	count  int
	active int
	best   calendar.Day
}

type reportsModel struct {
	ledger *ledger.Service
	now    func() time.Time
	width  int
	height int

	options  []ledger.YearOption
	selected int
	totals   []monthTotal
	recent   []store.Session
	unit     string
	err      error

	chart barchart.Model
}

func newReportsModel(l *ledger.Service) reportsModel {
	return reportsModel{
		ledger: l,
		now:    time.Now,
		chart:  barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	options []ledger.YearOption
	window  calendar.Window
	totals  []monthTotal
	recent  []store.Session
	unit    string
	err     error
}

func (r reportsModel) refresh() tea.Cmd {
	l, selected, now := r.ledger, r.selected, r.now()
	return func() tea.Msg {
		opts, err := l.YearOptions(now, 0)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		selected = min(max(selected, 0), len(opts)-1)
		w := opts[selected].Window
		m, err := l.Calendar(w)
		if err != nil {
			return reportsDataMsg{options: opts, window: w, err: err}
		}
		p, err := l.Prefs()
		if err != nil {
			return reportsDataMsg{options: opts, window: w, err: err}
		}
		recent, err := l.RecentSessions(recentLimit)
		if err != nil {
			return reportsDataMsg{options: opts, window: w, err: err}
		}
		return reportsDataMsg{options: opts, window: w, totals: monthTotals(m), recent: recent, unit: p.Unit}
	}
}

// monthTotals groups the real days of m by calendar month, oldest first.
func monthTotals(m calendar.Model) []monthTotal {
	var out []monthTotal
	for _, d := range m.Days {
		if d.Padding {
			continue
		}
		date := dayindex.Date(d.Index)
		if n := len(out); n == 0 || out[n-1].year != date.Year() || out[n-1].month != date.Month() {
			out = append(out, monthTotal{year: date.Year(), month: date.Month()})
		}
		t := &out[len(out)-1]
		t.count += d.Count
		if d.Count > 0 {
			t.active++
		}
		if d.Count > t.best.Count {
			t.best = d
		}
	}
	return out
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if r.selected < len(r.options) && msg.options != nil && !sameSelection(r.options[r.selected].Window, msg.window) {
			return r, nil
		}
		r.err = msg.err
		if msg.options != nil {
			r.options = msg.options
			r.selected = min(max(r.selected, 0), len(r.options)-1)
		}
		if msg.err == nil {
			r.totals = msg.totals
			r.recent = msg.recent
			r.unit = msg.unit
			r.buildChart()
		}
		return r, nil

	case tea.KeyMsg:
		if len(r.options) < 2 {
			return r, nil
		}
		switch {
		case key.Matches(msg, keys.Left):
			r.selected = (r.selected + 1) % len(r.options)
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			r.selected = (r.selected - 1 + len(r.options)) % len(r.options)
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(r.totals))
	for _, t := range r.totals {
		bars = append(bars, barchart.BarData{
			Label: t.month.String()[:3],
			Values: []barchart.BarValue{{
				Name:  fmt.Sprintf("%s %d", t.month, t.year),
				Value: float64(t.count),
				Style: levelStyle(calendar.MaxLevel),
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	if r.err != nil {
		return panelStyle.Width(w).Render(errorStyle.Render("Error: " + r.err.Error()))
	}

	period := ""
	if r.selected < len(r.options) {
		period = highlightStyle.Render(r.options[r.selected].Label)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", period,
	)

	nav := mutedStyle.Render("  ←/→: change period")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummaryTable(w), "", r.renderRecent(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	total := 0
	for _, t := range r.totals {
		total += t.count
	}
	if total == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	unit := r.unit
	if unit == "" {
		unit = "session"
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-10s %10s %12s  %s", "Month", unit+"s", "Active days", "Best day"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))

	for _, t := range r.totals {
		best := "-"
		if t.best.Count > 0 {
			best = t.best.Label
		}
		rows = append(rows, fmt.Sprintf("  %-10s %10d %12d  %s",
			fmt.Sprintf("%s %d", t.month.String()[:3], t.year), t.count, t.active, best,
		))
	}

	return strings.Join(rows, "\n")
}

// renderRecent lists the latest sessions regardless of the selected period.
func (r reportsModel) renderRecent(w int) string {
	rows := []string{titleStyle.Render("Recent sessions")}
	if len(r.recent) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, rows[0], mutedStyle.Render("  No sessions recorded yet"))
	}

	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-17s %8s  %s", "Completed", "Length", "Label")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))
	for _, sess := range r.recent {
		label := sess.Label
		if label == "" {
			label = "-"
		}
		rows = append(rows, fmt.Sprintf("  %-17s %8s  %s",
			sess.CompletedAt.UTC().Format("02 Jan 2006 15:04"),
			formatClock(time.Duration(sess.Duration)*time.Second),
			label,
		))
	}
	return strings.Join(rows, "\n")
}
