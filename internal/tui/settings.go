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
	"github.com/sadopc/streakr/internal/dayindex"
	"github.com/sadopc/streakr/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	weekStart      *string
	streakOffset   *string
	unit           *string
	sessionMinutes *string
}

func newSettingsModel(s *store.Store) settingsModel {
	ws, so, u, sm := "", "", "", ""
	return settingsModel{
		store:          s,
		weekStart:      &ws,
		streakOffset:   &so,
		unit:           &u,
		sessionMinutes: &sm,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func weekdayOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		opts = append(opts, huh.NewOption(d.String(), store.WeekdayName(int(d))))
	}
	return opts
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.weekStart = s.getVal(store.KeyWeekStart, "sunday")
	if d, err := store.ParseWeekday(*s.weekStart); err == nil {
		*s.weekStart = store.WeekdayName(d)
	}
	*s.streakOffset = s.getVal(store.KeyStreakOffset, "")
	*s.unit = s.getVal(store.KeyUnit, "session")
	*s.sessionMinutes = secsToMin(s.getVal(store.KeySessionLength, "1500"))

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Week starts on").
				Options(weekdayOptions()...).
				Value(s.weekStart),
			huh.NewInput().Title("Unit").
				Description("What one counted item is called, singular").
				Value(s.unit).
				Validate(validateUnit),
		).Title("Calendar"),
		huh.NewGroup(
			huh.NewInput().Title("Streak hour offset").
				Description("Hours added to UTC before splitting days, -12 to +14. Blank for UTC.").
				Value(s.streakOffset).
				Validate(validateOffset),
			huh.NewInput().Title("Session length (min)").
				Value(s.sessionMinutes).
				Validate(validateMinutes),
		).Title("Streak"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return settingsSavedMsg{} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := []struct{ key, value string }{
		{store.KeyWeekStart, *s.weekStart},
		{store.KeyStreakOffset, strings.TrimSpace(*s.streakOffset)},
		{store.KeyUnit, strings.TrimSpace(*s.unit)},
		{store.KeySessionLength, minToSecs(*s.sessionMinutes)},
	}
	for _, v := range values {
		if err := s.store.SetSetting(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func validateOffset(v string) error {
	off, err := dayindex.ParseOffset(v)
	if err != nil {
		return fmt.Errorf("enter a whole number of hours")
	}
	return dayindex.ValidateOffset(off)
}

func validateUnit(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("unit cannot be empty")
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.KeySessionLength:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	case store.KeyWeekStart:
		if d, err := store.ParseWeekday(v); err == nil {
			return time.Weekday(d).String()
		}
	case store.KeyStreakOffset:
		if strings.TrimSpace(v) == "" {
			return "not set (UTC)"
		}
		if off, err := dayindex.ParseOffset(v); err == nil {
			return fmt.Sprintf("%+d hours", off)
		}
	}
	return v
}

func secsToMin(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(secs / 60)
	}
	return s
}

func minToSecs(s string) string {
	if mins, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return strconv.Itoa(mins * 60)
	}
	return s
}
