// Package ledger joins the session store to the calendar and streak builders.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sadopc/streakr/internal/activity"
	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/config"
	"github.com/sadopc/streakr/internal/logging"
	"github.com/sadopc/streakr/internal/store"
	"github.com/sadopc/streakr/internal/streak"
)

// Source is the slice of the store the ledger reads from.
type Source interface {
	DailyCounts(offsetHours int) (activity.Counts, error)
	FirstSessionAt() (*time.Time, error)
	Revision() (string, error)
	WeekStart(fallback int) (int, error)
	StreakOffset() (offset int, set bool, err error)
	GetSetting(key string) (string, error)
	ListSessions(f store.SessionFilter) ([]store.Session, error)
}

// Prefs are the per-user settings that shape day boundaries and labels.
type Prefs struct {
	FirstDayOfWeek int
	Offset         int
	OffsetSet      bool
	Unit           string
}

// StreakView is a streak summary together with its tooltip lines.
type StreakView struct {
	Summary streak.Summary
	Lines   []string
	Prefs   Prefs
}

type Service struct {
	src      Source
	cache    Cache
	notifier Notifier
	conf     config.Config
	log      zerolog.Logger

	mu          sync.Mutex
	notifiedDay int64
	hasNotified bool
}

// New builds a ledger service. A nil notifier disables lapse alerts.
func New(src Source, cache Cache, notifier Notifier, conf config.Config, log zerolog.Logger) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		src:      src,
		cache:    cache,
		notifier: notifier,
		conf:     conf,
		log:      logging.Component(log, "ledger"),
	}
}

// Prefs resolves the stored settings over the config defaults.
func (s *Service) Prefs() (Prefs, error) {
	p := Prefs{
		FirstDayOfWeek: s.conf.Calendar.FirstDayOfWeek,
		Offset:         s.conf.Streak.HourOffset,
		OffsetSet:      s.conf.Streak.HourOffset != 0,
		Unit:           s.conf.Calendar.Unit,
	}

	fdow, err := s.src.WeekStart(p.FirstDayOfWeek)
	if err != nil {
		return p, fmt.Errorf("load week start: %w", err)
	}
	p.FirstDayOfWeek = fdow

	off, set, err := s.src.StreakOffset()
	if err != nil {
		return p, fmt.Errorf("load streak offset: %w", err)
	}
	if set {
		p.Offset, p.OffsetSet = off, true
	}

	unit, err := s.src.GetSetting(store.KeyUnit)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return p, fmt.Errorf("load unit: %w", err)
	case strings.TrimSpace(unit) != "":
		p.Unit = strings.TrimSpace(unit)
	}
	return p, nil
}

// Calendar builds the activity calendar for w, reusing a cached model while
// the sessions and settings are unchanged.
func (s *Service) Calendar(w calendar.Window) (calendar.Model, error) {
	p, err := s.Prefs()
	if err != nil {
		return calendar.Model{}, err
	}
	rev, err := s.src.Revision()
	if err != nil {
		return calendar.Model{}, err
	}

	key := fmt.Sprintf("cal|%s|%d|%d|%s|%s", w, p.FirstDayOfWeek, p.Offset, p.Unit, rev)
	if raw, ok := s.cache.Get(key); ok {
		var m calendar.Model
		if err := json.Unmarshal(raw, &m); err == nil {
			s.log.Debug().Str("window", w.String()).Msg("calendar cache hit")
			return m, nil
		}
		s.log.Warn().Str("window", w.String()).Msg("discarding undecodable cache entry")
	}

	counts, err := s.src.DailyCounts(p.Offset)
	if err != nil {
		return calendar.Model{}, fmt.Errorf("load counts: %w", err)
	}
	m, err := calendar.Builder{Unit: p.Unit}.Build(counts, w, p.FirstDayOfWeek)
	if err != nil {
		return calendar.Model{}, fmt.Errorf("build calendar: %w", err)
	}

	if raw, err := json.Marshal(m); err == nil {
		s.cache.Set(key, raw)
	} else {
		s.log.Warn().Err(err).Msg("encode calendar for cache")
	}
	s.log.Debug().
		Str("window", w.String()).
		Int("total", m.TotalCount).
		Msg("calendar built")
	return m, nil
}

// CalendarAt builds the rolling calendar ending on the user-day of now.
func (s *Service) CalendarAt(now time.Time) (calendar.Model, error) {
	p, err := s.Prefs()
	if err != nil {
		return calendar.Model{}, err
	}
	return s.Calendar(calendar.RollingAt(now.UnixMilli(), p.Offset))
}

// Streak evaluates the streak at now and renders its tooltip lines.
func (s *Service) Streak(now time.Time) (StreakView, error) {
	p, err := s.Prefs()
	if err != nil {
		return StreakView{}, err
	}
	counts, err := s.src.DailyCounts(p.Offset)
	if err != nil {
		return StreakView{}, fmt.Errorf("load counts: %w", err)
	}
	ms := now.UnixMilli()
	sum := streak.Evaluate(counts, ms, p.Offset)
	return StreakView{
		Summary: sum,
		Lines:   streak.Describe(sum, ms, p.Offset, p.OffsetSet),
		Prefs:   p,
	}, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Service) RecentSessions(limit int) ([]store.Session, error) {
	sessions, err := s.src.ListSessions(store.SessionFilter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}
	return sessions, nil
}

// CheckLapse alerts once per user-day when the streak is alive, today is not
// yet claimed and the lapse is within the configured warning period. It
// reports whether an alert was sent.
func (s *Service) CheckLapse(now time.Time) (bool, error) {
	if s.notifier == nil || !s.conf.Notify.Enabled {
		return false, nil
	}
	v, err := s.Streak(now)
	if err != nil {
		return false, err
	}
	sum := v.Summary
	if !sum.Alive() || sum.ClaimedToday || sum.TimeUntilLapse == nil {
		return false, nil
	}
	if *sum.TimeUntilLapse > s.conf.Notify.WarnBefore {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasNotified && s.notifiedDay == sum.Today {
		return false, nil
	}

	msg := fmt.Sprintf("Your streak of %s ends in %s.", streak.Days(sum.Current), streak.Humanize(*sum.TimeUntilLapse))
	if err := s.notifier.Alert("Streak at risk", msg); err != nil {
		return false, fmt.Errorf("send lapse alert: %w", err)
	}
	s.notifiedDay, s.hasNotified = sum.Today, true
	s.log.Info().Int64("day", sum.Today).Int("streak", sum.Current).Msg("lapse alert sent")
	return true, nil
}
