package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timerboard/internal/board"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Timers     []jsonTimer `json:"timers"`
}

type jsonTimer struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	InitialSec   int    `json:"initial_seconds"`
	RemainingSec int    `json:"remaining_seconds"`
	OvertimeSec  int    `json:"overtime_seconds"`
	Remaining    string `json:"remaining"`
	StartedAt    string `json:"started_at,omitempty"`
}

func ToJSON(timers []board.Timer, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(timers),
	}

	for _, t := range timers {
		startStr := ""
		if t.StartedAt != nil {
			startStr = t.StartedAt.Local().Format(time.RFC3339)
		}

		export.Timers = append(export.Timers, jsonTimer{
			ID:           t.ID,
			Name:         t.Name,
			Status:       string(t.Status),
			InitialSec:   t.InitialSeconds,
			RemainingSec: t.RemainingSeconds,
			OvertimeSec:  t.OvertimeSeconds,
			Remaining:    formatDuration(int64(t.RemainingSeconds)),
			StartedAt:    startStr,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
