package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/streakr/internal/calendar"
	"github.com/sadopc/streakr/internal/dayindex"
)

// ToCSV writes one row per real (non-padding) day of the calendar.
func ToCSV(m calendar.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Day", "Count", "Level", "Label"}); err != nil {
		return err
	}

	for _, d := range m.Days {
		if d.Padding {
			continue
		}
		row := []string{
			dayindex.FormatKey(d.Index),
			strconv.FormatInt(d.Index, 10),
			strconv.Itoa(d.Count),
			strconv.Itoa(d.Level),
			d.Label,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
