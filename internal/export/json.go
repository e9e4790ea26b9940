package export

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/dayindex"
	"github.com/sadopc/streakr/internal/streak"
)

type jsonExport struct {
	ExportedAt     string      `json:"exported_at"`
	Start          string      `json:"start"`
	End            string      `json:"end"`
	FirstDayOfWeek string      `json:"first_day_of_week"`
	Total          int         `json:"total"`
	Streak         jsonStreak  `json:"streak"`
	Months         []jsonMonth `json:"months"`
	Days           []jsonDay   `json:"days"`
}

type jsonStreak struct {
	Current      int    `json:"current"`
	Longest      int    `json:"longest"`
	ClaimedToday bool   `json:"claimed_today"`
	JustLapsed   bool   `json:"just_lapsed"`
	LastActive   string `json:"last_active,omitempty"`
	LapsesIn     string `json:"lapses_in,omitempty"`
}

type jsonMonth struct {
	Label string `json:"label"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Weeks int    `json:"weeks"`
}

type jsonDay struct {
	Date  string `json:"date"`
	Day   int64  `json:"day"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

func payload(m calendar.Model, s streak.Summary) jsonExport {
	out := jsonExport{
		ExportedAt:     time.Now().UTC().Format(time.RFC3339),
		Start:          dayindex.FormatKey(m.Start),
		End:            dayindex.FormatKey(m.End),
		FirstDayOfWeek: m.FirstDayOfWeek.String(),
		Total:          m.TotalCount,
		Streak: jsonStreak{
			Current:      s.Current,
			Longest:      s.Longest,
			ClaimedToday: s.ClaimedToday,
			JustLapsed:   s.JustLapsed,
		},
		Months: make([]jsonMonth, 0, len(m.Months)),
		Days:   make([]jsonDay, 0, m.End-m.Start+1),
	}
	if s.LastActive != nil {
		out.Streak.LastActive = dayindex.FormatKey(*s.LastActive)
	}
	if s.TimeUntilLapse != nil {
		out.Streak.LapsesIn = s.TimeUntilLapse.Round(time.Second).String()
	}

	for _, mo := range m.Months {
		out.Months = append(out.Months, jsonMonth{
			Label: mo.Label,
			Year:  mo.Year,
			Month: int(mo.Month),
			Weeks: mo.WeekSpan,
		})
	}
	for _, d := range m.Days {
		if d.Padding {
			continue
		}
		out.Days = append(out.Days, jsonDay{
			Date:  dayindex.FormatKey(d.Index),
			Day:   d.Index,
			Count: d.Count,
			Level: d.Level,
		})
	}
	return out
}

// ToJSON writes the calendar and streak summary as indented JSON.
func ToJSON(m calendar.Model, s streak.Summary, path string) error {
	data, err := json.MarshalIndent(payload(m, s), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// ToJSONZstd writes the ToJSON payload, compact and zstd-compressed.
func ToJSONZstd(m calendar.Model, s streak.Summary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create zstd file: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("open zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(payload(m, s)); err != nil {
		zw.Close()
		return fmt.Errorf("encode json: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush zstd: %w", err)
	}
	return f.Close()
}
