package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/export"
	"github.com/sadopc/streakr/internal/ledger"
	"github.com/sadopc/streakr/internal/logging"
	"github.com/sadopc/streakr/internal/store"
)

const lapseCheckInterval = 5 * time.Minute

var exportFormats = []string{"CSV", "JSON", "JSON (zstd)"}

// App is the root Bubble Tea model.
type App struct {
	ledger *ledger.Service
	log    zerolog.Logger
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	activity activityModel
	session  sessionModel
	reports  reportsModel
	settings settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, l *ledger.Service, log zerolog.Logger) App {
	h := help.New()
	h.ShowAll = false

	return App{
		ledger:     l,
		log:        logging.Component(log, "tui"),
		activeView: viewActivity,
		activity:   newActivityModel(l),
		session:    newSessionModel(s),
		reports:    newReportsModel(l),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.activity.Init(),
		tickCmd(),
		func() tea.Msg { return lapseTickMsg(time.Now()) },
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func lapseTickCmd() tea.Cmd {
	return tea.Tick(lapseCheckInterval, func(t time.Time) tea.Msg {
		return lapseTickMsg(t)
	})
}

func (a App) checkLapse(now time.Time) tea.Cmd {
	l := a.ledger
	return func() tea.Msg {
		sent, err := l.CheckLapse(now)
		return lapseCheckedMsg{sent: sent, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.activity.setSize(a.width, contentHeight)
		a.session.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		if a.activeView == viewReports {
			return a, a.reports.refresh()
		}
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewActivity
			return a, a.activity.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewSession
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// Ticks always reach the session so a countdown finishes off-screen.
		var cmd tea.Cmd
		a.session, cmd = a.session.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case lapseTickMsg:
		return a, tea.Batch(lapseTickCmd(), a.checkLapse(time.Time(msg)), a.activity.loadData())

	case lapseCheckedMsg:
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("lapse check failed")
		}
		if msg.sent {
			a.status = "Streak at risk: record a session today"
		}
		return a, nil

	case sessionRecordedMsg:
		a.status = fmt.Sprintf("Session recorded (%s)", formatDuration(time.Duration(msg.session.Duration)*time.Second))
		a.log.Info().Str("uid", msg.session.UID).Int64("duration", msg.session.Duration).Msg("session recorded")
		a.session.last = msg.session
		return a, tea.Batch(a.activity.loadData(), a.reports.refresh())

	case sessionUndoneMsg:
		a.status = fmt.Sprintf("Session removed (%s)", formatDuration(time.Duration(msg.session.Duration)*time.Second))
		a.log.Info().Str("uid", msg.session.UID).Msg("session undone")
		return a, tea.Batch(a.activity.loadData(), a.reports.refresh())

	case settingsSavedMsg:
		a.status = "Settings saved"
		a.session.loadSettings()
		return a, tea.Batch(a.activity.loadData(), a.reports.refresh())

	case activityDataMsg:
		var cmd tea.Cmd
		a.activity, cmd = a.activity.update(msg)
		return a, cmd

	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.log.Error().Msg(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewActivity:
		a.activity, cmd = a.activity.update(msg)
	case viewSession:
		a.session, cmd = a.session.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewSettings:
		return a.settings.formActive
	case viewSession:
		return a.session.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewActivity:
		return a.activity.loadData()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewActivity:
		content = a.activity.view()
	case viewSession:
		content = a.session.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("streakr")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Countdown indicator in footer
	timerInfo := ""
	if a.session.timer.running() {
		left := formatClock(a.session.timer.remaining())
		timerInfo = successStyle.Render(" ● " + left)
		if a.session.timer.paused() {
			timerInfo = warningStyle.Render(" ⏸ " + left)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render("Exports the calendar currently shown on the Activity view"))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// exportPath names the export file in dir for the given format.
func exportPath(dir string, format int, day time.Time) string {
	ext := [...]string{"csv", "json", "json.zst"}[format]
	return filepath.Join(dir, fmt.Sprintf("streakr-export-%s.%s", day.Format("2006-01-02"), ext))
}

func (a App) doExport(format int) tea.Cmd {
	l := a.ledger
	w, ok := a.activity.window()
	return func() tea.Msg {
		now := time.Now()
		var m calendar.Model
		var err error
		if ok {
			m, err = l.Calendar(w)
		} else {
			m, err = l.CalendarAt(now)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		v, err := l.Streak(now)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		path := exportPath(home, format, now)

		switch format {
		case 0:
			err = export.ToCSV(m, path)
		case 1:
			err = export.ToJSON(m, v.Summary, path)
		default:
			err = export.ToJSONZstd(m, v.Summary, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", exportFormats[format], err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
