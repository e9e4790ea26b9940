package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/sadopc/streakr/internal/activity"
	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/dayindex"
	"github.com/sadopc/streakr/internal/streak"
)

var (
	mar11 = dayindex.FromDate(2024, time.March, 11)
	mar12 = dayindex.FromDate(2024, time.March, 12)
)

func sampleData(t *testing.T, unit string) (calendar.Model, streak.Summary) {
	t.Helper()
	counts := activity.MustCounts(map[int64]int{mar11: 1, mar12: 3})
	m, err := calendar.Builder{Unit: unit}.Build(counts, calendar.Year(2024), 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	now := dayindex.RangeStart(mar12, 0) + 10*dayindex.MillisPerHour
	return m, streak.Evaluate(counts, now, 0)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	m, _ := sampleData(t, "")
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(m, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	records := readCSV(t, path)

	// header + one row per day of 2024
	if len(records) != 367 {
		t.Fatalf("expected 367 rows (1 header + 366 days), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"Date", "Day", "Count", "Level", "Label"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	if records[1][0] != "2024-01-01" {
		t.Fatalf("first date = %q, want 2024-01-01", records[1][0])
	}
	if records[366][0] != "2024-12-31" {
		t.Fatalf("last date = %q, want 2024-12-31", records[366][0])
	}

	// 2024-03-12 is day 72 of the year.
	row := records[72]
	if row[0] != "2024-03-12" {
		t.Fatalf("Date = %q, want 2024-03-12", row[0])
	}
	if row[2] != "3" || row[3] != "4" {
		t.Fatalf("count/level = %s/%s, want 3/4", row[2], row[3])
	}
	if row[4] != "12 Mar 2024: 3 sessions" {
		t.Fatalf("Label = %q", row[4])
	}
	if records[71][3] != "2" {
		t.Fatalf("level for 1 of peak 3 = %q, want 2", records[71][3])
	}
}

func TestToCSVSkipsPadding(t *testing.T) {
	m, _ := sampleData(t, "")
	if m.Days[0].Index == m.Start {
		t.Fatal("sample should start with padding")
	}
	path := filepath.Join(t.TempDir(), "pad.csv")
	if err := ToCSV(m, path); err != nil {
		t.Fatal(err)
	}
	for _, r := range readCSV(t, path)[1:] {
		if r[0] < "2024-01-01" || r[0] > "2024-12-31" {
			t.Fatalf("padding day %s exported", r[0])
		}
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	m, _ := sampleData(t, `"deep", work`)
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(m, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[72][4] != `12 Mar 2024: 3 "deep", works` {
		t.Fatalf("label mangled: %q", records[72][4])
	}
}

func TestToCSVBadPath(t *testing.T) {
	m, _ := sampleData(t, "")
	err := ToCSV(m, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func checkPayload(t *testing.T, result jsonExport) {
	t.Helper()
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}
	if result.Start != "2024-01-01" || result.End != "2024-12-31" {
		t.Fatalf("range = %s..%s", result.Start, result.End)
	}
	if result.FirstDayOfWeek != "Sunday" {
		t.Fatalf("first_day_of_week = %q, want Sunday", result.FirstDayOfWeek)
	}
	if result.Total != 4 {
		t.Fatalf("total = %d, want 4", result.Total)
	}
	if len(result.Days) != 366 {
		t.Fatalf("days = %d, want 366", len(result.Days))
	}
	if len(result.Months) != 12 {
		t.Fatalf("months = %d, want 12", len(result.Months))
	}
	if result.Months[2].Label != "Mar" || result.Months[2].Month != 3 {
		t.Fatalf("third month = %+v", result.Months[2])
	}

	s := result.Streak
	if s.Current != 2 || s.Longest != 2 || !s.ClaimedToday {
		t.Fatalf("streak = %+v", s)
	}
	if s.LastActive != "2024-03-12" {
		t.Fatalf("last_active = %q", s.LastActive)
	}
	if s.LapsesIn != "" {
		t.Fatalf("claimed streak should have no lapses_in, got %q", s.LapsesIn)
	}
}

func TestToJSON(t *testing.T) {
	m, s := sampleData(t, "")
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(m, s, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"exported_at\"") {
		t.Fatal("JSON should be indented")
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	checkPayload(t, result)
}

func TestToJSONUnclaimedStreak(t *testing.T) {
	counts := activity.MustCounts(map[int64]int{mar11: 1})
	m, err := calendar.Build(counts, calendar.Rolling(mar12), 0)
	if err != nil {
		t.Fatal(err)
	}
	now := dayindex.RangeStart(mar12, 0) + 18*dayindex.MillisPerHour
	path := filepath.Join(t.TempDir(), "unclaimed.json")

	if err := ToJSON(m, streak.Evaluate(counts, now, 0), path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Streak.LapsesIn != "6h0m0s" {
		t.Fatalf("lapses_in = %q, want 6h0m0s", result.Streak.LapsesIn)
	}
	if len(result.Days) != calendar.RollingDays {
		t.Fatalf("days = %d, want %d", len(result.Days), calendar.RollingDays)
	}
}

func TestToJSONBadPath(t *testing.T) {
	m, s := sampleData(t, "")
	err := ToJSON(m, s, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// zstd
// ============================================================

func TestToJSONZstd(t *testing.T) {
	m, s := sampleData(t, "")
	path := filepath.Join(t.TempDir(), "test.json.zst")

	if err := ToJSONZstd(m, s, path); err != nil {
		t.Fatalf("ToJSONZstd: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	var result jsonExport
	if err := json.NewDecoder(zr).Decode(&result); err != nil {
		t.Fatalf("invalid compressed JSON: %v", err)
	}
	checkPayload(t, result)
}

func TestToJSONZstdBadPath(t *testing.T) {
	m, s := sampleData(t, "")
	err := ToJSONZstd(m, s, "/nonexistent/dir/file.json.zst")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}
