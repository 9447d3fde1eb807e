package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timerboard/internal/board"
)

func ToCSV(timers []board.Timer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Name", "Status", "Initial (s)", "Remaining (s)", "Overtime (s)", "Remaining", "Started"}); err != nil {
		return err
	}

	for _, t := range timers {
		startStr := ""
		if t.StartedAt != nil {
			startStr = t.StartedAt.Local().Format(time.RFC3339)
		}

		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Name,
			string(t.Status),
			fmt.Sprintf("%d", t.InitialSeconds),
			fmt.Sprintf("%d", t.RemainingSeconds),
			fmt.Sprintf("%d", t.OvertimeSeconds),
			formatDuration(int64(t.RemainingSeconds)),
			startStr,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
