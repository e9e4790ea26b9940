package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/streakr/internal/store"
)

type sessionPhase int

const (
	sessionIdle sessionPhase = iota
	sessionFocus
	sessionCompleted
)

var phaseNames = map[sessionPhase]string{
	sessionIdle:      "IDLE",
	sessionFocus:     "FOCUS",
	sessionCompleted: "COMPLETED",
}

const defaultSessionLength = 25 * time.Minute

type sessionModel struct {
	store  *store.Store
	timer  timerModel
	width  int
	height int

	phase     sessionPhase
	length    time.Duration
	label     string
	completed int
	last      *store.Session // undoable

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formLabel   *string
	formMinutes *string
}

func newSessionModel(s *store.Store) sessionModel {
	label, minutes := "", ""
	m := sessionModel{
		store:       s,
		timer:       newTimerModel(),
		phase:       sessionIdle,
		formLabel:   &label,
		formMinutes: &minutes,
	}
	m.loadSettings()
	return m
}

func (p *sessionModel) loadSettings() {
	p.length = defaultSessionLength
	if v, err := p.store.GetSetting(store.KeySessionLength); err == nil {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			p.length = time.Duration(secs) * time.Second
		}
	}
}

func (p *sessionModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p sessionModel) update(msg tea.Msg) (sessionModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		if p.phase == sessionFocus && p.timer.done() {
			return p.complete()
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if p.phase != sessionFocus {
				return p.startSession()
			}
		case key.Matches(msg, keys.New):
			if p.phase != sessionFocus {
				return p.showForm()
			}
		case key.Matches(msg, keys.Pause):
			if p.phase == sessionFocus {
				p.timer.toggle()
			}
		case key.Matches(msg, keys.Stop):
			if p.phase == sessionFocus {
				return p.cancelSession()
			}
		case key.Matches(msg, keys.Undo):
			if p.phase != sessionFocus && p.last != nil {
				return p.undoLast()
			}
		}
	}
	return p, nil
}

func (p sessionModel) startSession() (sessionModel, tea.Cmd) {
	p.phase = sessionFocus
	p.timer.start(p.length)
	return p, nil
}

func (p sessionModel) complete() (sessionModel, tea.Cmd) {
	startedAt := p.timer.startTime
	completedAt := p.timer.now()
	label := p.label

	p.timer.stop()
	p.phase = sessionCompleted
	p.completed++

	st := p.store
	return p, func() tea.Msg {
		sess, err := st.RecordSession(label, startedAt, completedAt)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return sessionRecordedMsg{session: sess}
	}
}

// undoLast deletes the session recorded most recently in this run.
func (p sessionModel) undoLast() (sessionModel, tea.Cmd) {
	id, st := p.last.ID, p.store
	p.last = nil
	if p.phase == sessionCompleted {
		p.phase = sessionIdle
	}
	if p.completed > 0 {
		p.completed--
	}
	return p, func() tea.Msg {
		sess, err := st.GetSession(id)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if err := st.DeleteSession(id); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return sessionUndoneMsg{session: sess}
	}
}

func (p sessionModel) cancelSession() (sessionModel, tea.Cmd) {
	p.timer.stop()
	p.phase = sessionIdle
	return p, func() tea.Msg {
		return statusMsg{text: "Session cancelled"}
	}
}

func (p sessionModel) showForm() (sessionModel, tea.Cmd) {
	*p.formLabel = p.label
	*p.formMinutes = strconv.Itoa(int(p.length.Minutes()))

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Label").Value(p.formLabel),
			huh.NewInput().Title("Length (min)").Value(p.formMinutes).Validate(validateMinutes),
		).Title("New session"),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p sessionModel) updateForm(msg tea.Msg) (sessionModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		p.label = strings.TrimSpace(*p.formLabel)
		if mins, err := strconv.Atoi(strings.TrimSpace(*p.formMinutes)); err == nil && mins > 0 {
			p.length = time.Duration(mins) * time.Minute
		}
		return p.startSession()
	}

	return p, cmd
}

func validateMinutes(v string) error {
	mins, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || mins < 1 || mins > 24*60 {
		return fmt.Errorf("enter whole minutes between 1 and %d", 24*60)
	}
	return nil
}

func (p sessionModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Session"), "", p.form.View()),
		)
	}

	title := titleStyle.Render("Focus Session")
	if p.label != "" {
		title += mutedStyle.Render("  " + p.label)
	}

	var timeDisplay, phaseLabel, indicator string
	switch p.phase {
	case sessionIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatClock(p.length))
		phaseLabel = mutedStyle.Render("Ready to start")
		indicator = mutedStyle.Render("Press s to begin")
	case sessionFocus:
		style := timerRunningStyle
		phaseLabel = accentStyle.Bold(true).Render(phaseNames[sessionFocus])
		if p.timer.paused() {
			style = timerPausedStyle
			phaseLabel = warningStyle.Bold(true).Render("PAUSED")
		}
		timeDisplay = style.Width(w - 6).Render(formatClock(p.timer.remaining()))
		indicator = p.renderProgress(w - 10)
	case sessionCompleted:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		phaseLabel = successStyle.Bold(true).Render("SESSION RECORDED")
		indicator = mutedStyle.Render(fmt.Sprintf("%s completed this run", plural(p.completed, "session")))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
	)

	// Controls
	var controls string
	switch p.phase {
	case sessionIdle, sessionCompleted:
		if p.last != nil {
			controls = mutedStyle.Render("s: start  n: new session  u: undo  q: quit")
		} else {
			controls = mutedStyle.Render("s: start  n: new session  q: quit")
		}
	case sessionFocus:
		controls = mutedStyle.Render("space: pause/resume  x: cancel")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// renderProgress draws a bar of the elapsed share of the session.
func (p sessionModel) renderProgress(width int) string {
	width = min(max(width, 10), 50)
	filled := 0
	if p.length > 0 {
		filled = int(float64(width) * float64(p.timer.elapsed()) / float64(p.length))
	}
	filled = min(max(filled, 0), width)
	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}
