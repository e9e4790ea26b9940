package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/streakr/internal/dayindex"
)

const (
	KeyWeekStart     = "week_start"
	KeyStreakOffset  = "streak_hour_offset"
	KeyUnit          = "unit"
	KeySessionLength = "session_length"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// WeekStart returns the configured first day of the week (0 = Sunday).
// fallback is used when the setting is missing.
func (s *Store) WeekStart(fallback int) (int, error) {
	v, err := s.GetSetting(KeyWeekStart)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return ParseWeekday(v)
}

// StreakOffset returns the stored hour offset and whether one was ever set.
func (s *Store) StreakOffset() (offset int, set bool, err error) {
	v, err := s.GetSetting(KeyStreakOffset)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	offset, err = dayindex.ParseOffset(v)
	if err != nil {
		return 0, false, err
	}
	return offset, strings.TrimSpace(v) != "", nil
}

// ParseWeekday accepts an English weekday name ("monday", "Mon") or a digit 0-6.
func ParseWeekday(v string) (int, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if len(v) == 1 && v[0] >= '0' && v[0] <= '6' {
		return int(v[0] - '0'), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || (len(v) >= 3 && strings.HasPrefix(name, v)) {
			return int(d), nil
		}
	}
	return 0, fmt.Errorf("%w: weekday %q", dayindex.ErrInvalidArgument, v)
}

// WeekdayName is the stored form of a first-day-of-week value.
func WeekdayName(d int) string {
	return strings.ToLower(time.Weekday(d).String())
}
