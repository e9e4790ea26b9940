package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sadopc/streakr/internal/activity"
	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/config"
	"github.com/sadopc/streakr/internal/dayindex"
	"github.com/sadopc/streakr/internal/ledger"
	"github.com/sadopc/streakr/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 12, 15, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err, "new memory store")
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestLedger(s *store.Store) *ledger.Service {
	conf := config.Config{Calendar: config.CalendarConfig{Unit: "session"}}
	return ledger.New(s, nil, nil, conf, zerolog.Nop())
}

func newTestApp(t *testing.T) (App, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	app := NewApp(s, newTestLedger(s), zerolog.Nop())
	app.activity.now = func() time.Time { return fixedNow }
	app.reports.now = func() time.Time { return fixedNow }
	return app, s
}

func record(t *testing.T, s *store.Store, completed time.Time) {
	t.Helper()
	_, err := s.RecordSession("", completed.Add(-25*time.Minute), completed)
	require.NoError(t, err)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// ============================================================
// Timer model
// ============================================================

func newTestTimer() (timerModel, *fakeClock) {
	c := &fakeClock{t: fixedNow}
	tm := newTimerModel()
	tm.now = c.now
	return tm, c
}

func TestTimerStartStop(t *testing.T) {
	tm, c := newTestTimer()
	assert.False(t, tm.running(), "timer should start stopped")
	assert.Equal(t, time.Duration(0), tm.elapsed())

	tm.start(10 * time.Minute)
	assert.True(t, tm.running())
	assert.False(t, tm.paused())

	c.advance(4 * time.Minute)
	assert.Equal(t, 4*time.Minute, tm.elapsed())
	assert.Equal(t, 6*time.Minute, tm.remaining())

	tm.stop()
	assert.False(t, tm.running())
	assert.Equal(t, 10*time.Minute, tm.remaining())
}

func TestTimerPauseExcludesGap(t *testing.T) {
	tm, c := newTestTimer()
	tm.start(10 * time.Minute)

	c.advance(2 * time.Minute)
	tm.pause()
	assert.True(t, tm.paused())
	assert.True(t, tm.running(), "paused timer is still 'running' (not stopped)")

	c.advance(30 * time.Minute)
	assert.Equal(t, 2*time.Minute, tm.elapsed(), "elapsed should not grow while paused")
	assert.False(t, tm.done())

	tm.resume()
	c.advance(time.Minute)
	assert.Equal(t, 3*time.Minute, tm.elapsed())
}

func TestTimerToggle(t *testing.T) {
	tm, _ := newTestTimer()

	tm.toggle()
	assert.False(t, tm.running(), "toggle should not start the timer")

	tm.start(time.Minute)
	tm.toggle()
	assert.True(t, tm.paused())
	tm.toggle()
	assert.False(t, tm.paused())
}

func TestTimerNoOps(t *testing.T) {
	tm, _ := newTestTimer()
	tm.pause()
	assert.False(t, tm.paused(), "should not be paused when stopped")

	tm.start(time.Minute)
	tm.resume()
	assert.False(t, tm.paused())
}

func TestTimerDone(t *testing.T) {
	tm, c := newTestTimer()
	tm.start(time.Minute)
	assert.False(t, tm.done())

	c.advance(time.Minute)
	assert.True(t, tm.done())
	assert.Equal(t, time.Duration(0), tm.remaining())

	c.advance(time.Hour)
	assert.Equal(t, time.Duration(0), tm.remaining(), "remaining never goes negative")
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "25:00", formatClock(25*time.Minute))
	assert.Equal(t, "00:59", formatClock(59*time.Second+400*time.Millisecond))
	assert.Equal(t, "00:00", formatClock(-time.Second))
	assert.Equal(t, "90:00", formatClock(90*time.Minute))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 session", plural(1, "session"))
	assert.Equal(t, "0 sessions", plural(0, "session"))
	assert.Equal(t, "3 days", plural(3, "day"))
}

func TestViewNames(t *testing.T) {
	assert.Len(t, viewNames, 4)
	assert.Equal(t, viewActivity, viewState(0))
	assert.Equal(t, viewSettings, viewState(len(viewNames)-1))
}

// ============================================================
// Session model
// ============================================================

func TestSessionInit(t *testing.T) {
	s := newTestStore(t)
	p := newSessionModel(s)
	assert.Equal(t, sessionIdle, p.phase)
	assert.Equal(t, defaultSessionLength, p.length)
	assert.False(t, p.formActive)
}

func TestSessionLoadsSettings(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetSetting(store.KeySessionLength, "600"))
	p := newSessionModel(s)
	assert.Equal(t, 10*time.Minute, p.length)

	require.NoError(t, s.SetSetting(store.KeySessionLength, "bogus"))
	p.loadSettings()
	assert.Equal(t, defaultSessionLength, p.length)
}

func TestSessionStartCancel(t *testing.T) {
	s := newTestStore(t)
	p := newSessionModel(s)

	p, _ = p.startSession()
	assert.Equal(t, sessionFocus, p.phase)
	assert.True(t, p.timer.running())

	p, cmd := p.cancelSession()
	assert.Equal(t, sessionIdle, p.phase)
	assert.False(t, p.timer.running())
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg{text: "Session cancelled"}, cmd())
}

func TestSessionCompletesAndRecords(t *testing.T) {
	s := newTestStore(t)
	p := newSessionModel(s)
	c := &fakeClock{t: fixedNow}
	p.timer.now = c.now
	p.label = "writing"

	p, _ = p.startSession()
	c.advance(10 * time.Minute)
	p, cmd := p.update(tickMsg(c.t))
	assert.Equal(t, sessionFocus, p.phase, "not done yet")
	assert.Nil(t, cmd)

	c.advance(15 * time.Minute)
	p, cmd = p.update(tickMsg(c.t))
	assert.Equal(t, sessionCompleted, p.phase)
	assert.Equal(t, 1, p.completed)
	require.NotNil(t, cmd)

	msg, ok := cmd().(sessionRecordedMsg)
	require.True(t, ok, "expected sessionRecordedMsg")
	assert.Equal(t, "writing", msg.session.Label)
	assert.Equal(t, int64(25*60), msg.session.Duration)
	assert.True(t, msg.session.CompletedAt.Equal(fixedNow.Add(25*time.Minute)))

	sessions, err := s.ListSessions(store.SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSessionPauseDelaysCompletion(t *testing.T) {
	s := newTestStore(t)
	p := newSessionModel(s)
	c := &fakeClock{t: fixedNow}
	p.timer.now = c.now

	p, _ = p.startSession()
	p, _ = p.update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, p.timer.paused())

	c.advance(time.Hour)
	p, cmd := p.update(tickMsg(c.t))
	assert.Equal(t, sessionFocus, p.phase)
	assert.Nil(t, cmd)
}

func TestSessionUndoLast(t *testing.T) {
	s := newTestStore(t)
	p := newSessionModel(s)
	c := &fakeClock{t: fixedNow}
	p.timer.now = c.now

	p, _ = p.startSession()
	c.advance(defaultSessionLength)
	p, cmd := p.update(tickMsg(c.t))
	require.NotNil(t, cmd)
	recorded := cmd().(sessionRecordedMsg)
	p.last = recorded.session
	p.setSize(100, 30)
	assert.Contains(t, p.view(), "u: undo")

	p, cmd = p.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	require.NotNil(t, cmd)
	assert.Nil(t, p.last)
	assert.Equal(t, sessionIdle, p.phase)
	assert.Equal(t, 0, p.completed)

	undone, ok := cmd().(sessionUndoneMsg)
	require.True(t, ok, "expected sessionUndoneMsg")
	assert.Equal(t, recorded.session.UID, undone.session.UID)

	sessions, err := s.ListSessions(store.SessionFilter{})
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, cmd = p.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	assert.Nil(t, cmd, "nothing left to undo")
}

func TestSessionUndoIgnoredWhileFocused(t *testing.T) {
	s := newTestStore(t)
	p := newSessionModel(s)
	sess, err := s.RecordSession("", fixedNow.Add(-25*time.Minute), fixedNow)
	require.NoError(t, err)
	p.last = sess

	p, _ = p.startSession()
	p, cmd := p.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	assert.Nil(t, cmd)
	assert.NotNil(t, p.last)
}

func TestSessionViewStates(t *testing.T) {
	s := newTestStore(t)
	p := newSessionModel(s)
	p.setSize(100, 30)

	assert.Contains(t, p.view(), "25:00")
	assert.Contains(t, p.view(), "Ready to start")

	p, _ = p.startSession()
	assert.Contains(t, p.view(), "FOCUS")

	p.phase = sessionCompleted
	p.completed = 2
	assert.Contains(t, p.view(), "2 sessions completed this run")
}

func TestValidateMinutes(t *testing.T) {
	assert.NoError(t, validateMinutes("25"))
	assert.NoError(t, validateMinutes(" 1 "))
	assert.Error(t, validateMinutes("0"))
	assert.Error(t, validateMinutes("abc"))
	assert.Error(t, validateMinutes("1441"))
}

// ============================================================
// Settings model
// ============================================================

func TestSecsToMin(t *testing.T) {
	assert.Equal(t, "25", secsToMin("1500"))
	assert.Equal(t, "abc", secsToMin("abc"))
}

func TestMinToSecs(t *testing.T) {
	assert.Equal(t, "1500", minToSecs("25"))
	assert.Equal(t, "600", minToSecs(" 10 "))
	assert.Equal(t, "abc", minToSecs("abc"))
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{store.KeySessionLength, "1500", "25 min"},
		{store.KeyWeekStart, "monday", "Monday"},
		{store.KeyWeekStart, "6", "Saturday"},
		{store.KeyStreakOffset, "", "not set (UTC)"},
		{store.KeyStreakOffset, "-3", "-3 hours"},
		{store.KeyStreakOffset, "5", "+5 hours"},
		{store.KeyUnit, "pomodoro", "pomodoro"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSettingValue(tt.key, tt.value), tt.key+"="+tt.value)
	}
}

func TestValidateOffset(t *testing.T) {
	assert.NoError(t, validateOffset(""))
	assert.NoError(t, validateOffset("+14"))
	assert.NoError(t, validateOffset("-12"))
	assert.Error(t, validateOffset("15"))
	assert.Error(t, validateOffset("three"))
}

func TestValidateUnit(t *testing.T) {
	assert.NoError(t, validateUnit("session"))
	assert.Error(t, validateUnit("  "))
}

func TestWeekdayOptions(t *testing.T) {
	opts := weekdayOptions()
	require.Len(t, opts, 7)
	assert.Equal(t, "Sunday", opts[0].Key)
	assert.Equal(t, "sunday", opts[0].Value)
	assert.Equal(t, "saturday", opts[6].Value)
}

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	*m.weekStart = "wednesday"
	*m.streakOffset = " -5 "
	*m.unit = "pomodoro"
	*m.sessionMinutes = "50"
	require.NoError(t, m.saveSettings())

	ws, err := s.WeekStart(0)
	require.NoError(t, err)
	assert.Equal(t, 3, ws)

	off, set, err := s.StreakOffset()
	require.NoError(t, err)
	assert.Equal(t, -5, off)
	assert.True(t, set)

	v, err := s.GetSetting(store.KeySessionLength)
	require.NoError(t, err)
	assert.Equal(t, "3000", v)
}

func TestSettingsShowForm(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetSetting(store.KeyWeekStart, "Mon"))
	m := newSettingsModel(s)

	m, _ = m.showForm()
	assert.True(t, m.formActive)
	assert.Equal(t, "monday", *m.weekStart)
	assert.Equal(t, "25", *m.sessionMinutes)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.formActive)
}

// ============================================================
// Activity model
// ============================================================

func loadActivity(t *testing.T, a activityModel) activityModel {
	t.Helper()
	msg := a.loadData()()
	data, ok := msg.(activityDataMsg)
	require.True(t, ok)
	require.NoError(t, data.err)
	a, _ = a.update(data)
	return a
}

func TestActivityEmpty(t *testing.T) {
	app, _ := newTestApp(t)
	a := app.activity
	a.setSize(160, 40)
	a = loadActivity(t, a)

	require.True(t, a.loaded)
	assert.Equal(t, []string{"Last 12 months", "2024"}, []string{a.options[0].Label, a.options[1].Label})

	out := a.view()
	assert.Contains(t, out, "No data found.")
	assert.Contains(t, out, "0 sessions")
	assert.Contains(t, out, "in the last year")
	assert.NotContains(t, out, "Current streak")
	assert.NotContains(t, out, "Longest streak")
}

func TestActivityShowsStreak(t *testing.T) {
	app, s := newTestApp(t)
	record(t, s, fixedNow.Add(-48*time.Hour))
	record(t, s, fixedNow.Add(-24*time.Hour))
	record(t, s, fixedNow.Add(-time.Hour))

	a := app.activity
	a.setSize(160, 40)
	a = loadActivity(t, a)

	out := a.view()
	assert.NotContains(t, out, "No data found.")
	assert.Contains(t, out, "3 sessions")
	assert.Contains(t, out, "Current streak: 3 days")
	assert.Contains(t, out, "Claimed today: yes")
	assert.Contains(t, out, "Mar")
}

func TestActivitySingleDayHidesStreakBlock(t *testing.T) {
	app, s := newTestApp(t)
	record(t, s, fixedNow.Add(-time.Hour))

	a := app.activity
	a.setSize(160, 40)
	a = loadActivity(t, a)
	out := a.view()
	assert.NotContains(t, out, "Current streak")
	assert.NotContains(t, out, "Longest streak")
	assert.NotContains(t, out, "Claimed today")
	assert.Contains(t, out, "1 session")
}

func TestActivityOffsetNote(t *testing.T) {
	app, s := newTestApp(t)
	require.NoError(t, s.SetSetting(store.KeyStreakOffset, "-3"))

	a := app.activity
	a.setSize(160, 40)
	a = loadActivity(t, a)
	assert.Contains(t, a.view(), "Days roll over at 03:00 UTC (streak hour offset -3).")
}

func TestActivityCyclesYears(t *testing.T) {
	app, s := newTestApp(t)
	record(t, s, time.Date(2023, time.July, 1, 12, 0, 0, 0, time.UTC))

	a := loadActivity(t, app.activity)
	require.Len(t, a.options, 3)

	a, cmd := a.update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, a.selected)
	require.NotNil(t, cmd)
	a, _ = a.update(cmd())
	w, ok := a.window()
	require.True(t, ok)
	assert.Equal(t, calendar.Year(2024), w)

	a, _ = a.update(tea.KeyMsg{Type: tea.KeyLeft})
	a, _ = a.update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, a.selected, "left wraps to the newest option")

	a, _ = a.update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, a.selected, "right wraps to the oldest option")
}

func TestActivityDropsStaleLoad(t *testing.T) {
	app, s := newTestApp(t)
	record(t, s, time.Date(2023, time.July, 1, 12, 0, 0, 0, time.UTC))
	a := loadActivity(t, app.activity)

	slow := a.loadData()
	a, fast := a.update(tea.KeyMsg{Type: tea.KeyLeft})
	require.NotNil(t, fast)
	a, _ = a.update(fast())
	require.Equal(t, dayindex.FromDate(2024, time.January, 1), a.cal.Start)

	// The rolling window load finishes after the 2024 one.
	a, _ = a.update(slow())
	assert.Equal(t, dayindex.FromDate(2024, time.January, 1), a.cal.Start)
	w, ok := a.window()
	require.True(t, ok)
	assert.Equal(t, calendar.Year(2024), w)
}

func TestSameSelection(t *testing.T) {
	assert.True(t, sameSelection(calendar.Rolling(10), calendar.Rolling(11)))
	assert.True(t, sameSelection(calendar.Year(2023), calendar.Year(2023)))
	assert.False(t, sameSelection(calendar.Year(2023), calendar.Year(2024)))
	assert.False(t, sameSelection(calendar.Rolling(10), calendar.Year(2024)))
}

func TestActivityYearTotal(t *testing.T) {
	app, s := newTestApp(t)
	record(t, s, fixedNow)
	a := app.activity
	a.setSize(160, 40)
	a.selected = 1
	a = loadActivity(t, a)
	assert.Contains(t, a.view(), "1 session")
	assert.Contains(t, a.view(), "in 2024")
}

func TestMonthHeader(t *testing.T) {
	months := []calendar.Month{
		{Label: "Jan", WeekSpan: 5},
		{Label: "Feb", WeekSpan: 4},
		{Label: "Mar", WeekSpan: 1},
	}
	assert.Contains(t, monthHeader(months, 0, 10), "Jan       Feb")
	assert.NotContains(t, monthHeader(months, 0, 10), "Mar")

	h := monthHeader(months, 6, 4)
	assert.Contains(t, h, "Feb")
	assert.NotContains(t, h, "Jan")
}

func TestActivityGridNarrow(t *testing.T) {
	app, _ := newTestApp(t)
	a := loadActivity(t, app.activity)
	lines := a.renderGrid(labelWidth + 10*cellWidth)
	require.Len(t, lines, 8, "month header plus seven weekday rows")

	// Ten visible weeks; the newest ends on Tuesday 12 Mar with four
	// padding cells after it.
	cells := 0
	for _, l := range lines[1:] {
		cells += strings.Count(l, "■")
	}
	assert.Equal(t, 66, cells)
}

// ============================================================
// Reports model
// ============================================================

func TestMonthTotals(t *testing.T) {
	counts := map[int64]int{
		dayindex.FromDate(2024, time.January, 3):  2,
		dayindex.FromDate(2024, time.January, 9):  5,
		dayindex.FromDate(2024, time.February, 1): 1,
	}
	m, err := calendar.Builder{}.Build(activity.MustCounts(counts), calendar.Year(2024), 0)
	require.NoError(t, err)

	totals := monthTotals(m)
	require.Len(t, totals, 12)
	assert.Equal(t, time.January, totals[0].month)
	assert.Equal(t, 7, totals[0].count)
	assert.Equal(t, 2, totals[0].active)
	assert.Equal(t, "09 Jan 2024: 5 sessions", totals[0].best.Label)
	assert.Equal(t, 1, totals[1].count)
	assert.Equal(t, 0, totals[11].count)
}

func TestReportsRefresh(t *testing.T) {
	app, s := newTestApp(t)
	record(t, s, fixedNow)

	r := app.reports
	r.setSize(120, 40)
	msg, ok := r.refresh()().(reportsDataMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	r, _ = r.update(msg)

	require.NotEmpty(t, r.totals)
	last := r.totals[len(r.totals)-1]
	assert.Equal(t, time.March, last.month)
	assert.Equal(t, 1, last.count)
	assert.Contains(t, r.view(), "Last 12 months")
	assert.Contains(t, r.view(), "12 Mar 2024: 1 session")
}

func TestReportsEmpty(t *testing.T) {
	app, _ := newTestApp(t)
	r := app.reports
	r.setSize(120, 40)
	msg := r.refresh()().(reportsDataMsg)
	r, _ = r.update(msg)
	assert.Contains(t, r.view(), "No data for this period")
	assert.Contains(t, r.view(), "No sessions recorded yet")
}

func TestReportsRecentSessions(t *testing.T) {
	app, s := newTestApp(t)
	for i := 0; i < recentLimit+2; i++ {
		record(t, s, fixedNow.Add(-time.Duration(i)*time.Hour))
	}
	_, err := s.RecordSession("deep work", fixedNow.Add(25*time.Minute), fixedNow.Add(50*time.Minute))
	require.NoError(t, err)

	r := app.reports
	r.setSize(120, 40)
	r, _ = r.update(r.refresh()())
	require.Len(t, r.recent, recentLimit)
	assert.Equal(t, "deep work", r.recent[0].Label)

	out := r.view()
	assert.Contains(t, out, "Recent sessions")
	assert.Contains(t, out, "12 Mar 2024 15:50")
	assert.Contains(t, out, "25:00")
	assert.Contains(t, out, "deep work")
}

func TestReportsDropsStaleLoad(t *testing.T) {
	app, s := newTestApp(t)
	record(t, s, time.Date(2023, time.July, 1, 12, 0, 0, 0, time.UTC))
	r := app.reports
	r.setSize(120, 40)
	r, _ = r.update(r.refresh()())
	require.Len(t, r.options, 3)

	slow := r.refresh()
	r, fast := r.update(tea.KeyMsg{Type: tea.KeyLeft})
	require.NotNil(t, fast)
	r, _ = r.update(fast())
	require.Len(t, r.totals, 12, "calendar year 2024")

	r, _ = r.update(slow())
	assert.Len(t, r.totals, 12, "late rolling window load is dropped")
	assert.Equal(t, time.January, r.totals[0].month)
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, viewActivity, app.activeView, "default view should be activity")
	assert.False(t, app.showHelp)
	assert.False(t, app.exportPicking)
	assert.False(t, app.isFormActive())
}

func TestAppViewStates(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	for v := range viewNames {
		app.activeView = viewState(v)
		assert.NotEmpty(t, app.View(), "view %d rendered empty", v)
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		assert.Contains(t, header, name)
	}
}

func TestAppLoadingState(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, "Loading...", app.View())
}

func TestAppStatusMessage(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	m, _ := app.Update(statusMsg{text: "test status"})
	assert.Contains(t, m.(App).renderFooter(), "test status")
}

func TestAppTabSwitching(t *testing.T) {
	app, _ := newTestApp(t)

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	assert.Equal(t, viewReports, m.(App).activeView)
	assert.NotNil(t, cmd)

	m, _ = m.(App).Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, viewSettings, m.(App).activeView)

	m, _ = m.(App).Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, viewActivity, m.(App).activeView, "tab wraps around")
}

func TestAppSessionRecordedRefreshes(t *testing.T) {
	app, s := newTestApp(t)
	sess, err := s.RecordSession("", fixedNow.Add(-26*time.Minute), fixedNow)
	require.NoError(t, err)

	m, cmd := app.Update(sessionRecordedMsg{session: sess})
	assert.Equal(t, "Session recorded (00:26:00)", m.(App).status)
	assert.NotNil(t, cmd)
}

func TestAppSessionUndone(t *testing.T) {
	app, s := newTestApp(t)
	sess, err := s.RecordSession("", fixedNow.Add(-25*time.Minute), fixedNow)
	require.NoError(t, err)

	m, _ := app.Update(sessionRecordedMsg{session: sess})
	require.Equal(t, sess, m.(App).session.last)

	m, cmd := m.(App).Update(sessionUndoneMsg{session: sess})
	assert.Equal(t, "Session removed (00:25:00)", m.(App).status)
	assert.NotNil(t, cmd)
}

func TestAppExportPicker(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	a := m.(App)
	require.True(t, a.exportPicking)
	assert.Contains(t, a.View(), "JSON (zstd)")

	for range 5 {
		m, _ = a.Update(tea.KeyMsg{Type: tea.KeyDown})
		a = m.(App)
	}
	assert.Equal(t, len(exportFormats)-1, a.exportCursor)

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.(App).exportPicking)
}

func TestAppExportWritesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	app, s := newTestApp(t)
	record(t, s, fixedNow)

	msg := app.doExport(1)()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok, "got %#v", msg)
	assert.True(t, strings.HasSuffix(done.path, ".json"))
	assert.FileExists(t, done.path)
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, "/tmp/streakr-export-2024-03-12.csv", exportPath("/tmp", 0, fixedNow))
	assert.Equal(t, "/tmp/streakr-export-2024-03-12.json.zst", exportPath("/tmp", 2, fixedNow))
}

func TestAppLapseCheckedWithoutNotifier(t *testing.T) {
	app, _ := newTestApp(t)
	msg := app.checkLapse(fixedNow)()
	assert.Equal(t, lapseCheckedMsg{}, msg)
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	assert.NotEmpty(t, keys.ShortHelp())
	groups := keys.FullHelp()
	require.NotEmpty(t, groups)
	for i, g := range groups {
		assert.NotEmpty(t, g, "full help group %d is empty", i)
	}
}

// ============================================================
// Styles (smoke test, verifies they do not panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	for l := -1; l <= calendar.MaxLevel+1; l++ {
		assert.NotEmpty(t, levelStyle(l).Render("■"))
	}
	assert.NotEmpty(t, activeTabStyle.Render("test"))
	assert.NotEmpty(t, panelStyle.Render("test"))
	assert.NotEmpty(t, timerPausedStyle.Render("test"))
}
