package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StorageKey is the key the board is saved under.
const StorageKey = "timerManager_timers"

// ErrCorrupt is returned by Decode for data that does not describe a valid
// board.
var ErrCorrupt = errors.New("corrupt board data")

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type record struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	InitialTime     int     `json:"initialTime"`
	RemainingTime   int     `json:"remainingTime"`
	Status          Status  `json:"status"`
	OvertimeSeconds int     `json:"overtimeSeconds"`
	StartedAt       *string `json:"startedAt"`
}

// Encode serializes timers. A running timer is written as paused since
// nothing drives its ticks once the process is gone.
func Encode(timers []Timer) ([]byte, error) {
	recs := make([]record, 0, len(timers))
	for _, t := range timers {
		r := record{
			ID:              t.ID,
			Name:            t.Name,
			InitialTime:     t.InitialSeconds,
			RemainingTime:   t.RemainingSeconds,
			Status:          t.Status,
			OvertimeSeconds: t.OvertimeSeconds,
		}
		if r.Status == StatusRunning {
			r.Status = StatusPaused
		}
		if t.StartedAt != nil {
			s := t.StartedAt.UTC().Format(isoMillis)
			r.StartedAt = &s
		}
		recs = append(recs, r)
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode timers: %w", err)
	}
	return data, nil
}

// Decode parses data written by Encode. Restored timers are never ticking.
func Decode(data []byte) ([]Timer, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	seen := make(map[int64]bool, len(recs))
	timers := make([]Timer, 0, len(recs))
	for i, r := range recs {
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrCorrupt, r.ID)
		}
		seen[r.ID] = true

		t, err := r.timer()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCorrupt, i, err)
		}
		timers = append(timers, t)
	}
	return timers, nil
}

func (r record) timer() (Timer, error) {
	if r.ID <= 0 {
		return Timer{}, fmt.Errorf("id %d", r.ID)
	}
	if !r.Status.Valid() {
		return Timer{}, fmt.Errorf("unknown status %q", r.Status)
	}
	if r.InitialTime < 1 {
		return Timer{}, fmt.Errorf("initial time %d", r.InitialTime)
	}
	if r.RemainingTime < 0 || r.RemainingTime > r.InitialTime {
		return Timer{}, fmt.Errorf("remaining time %d outside [0, %d]", r.RemainingTime, r.InitialTime)
	}
	if r.OvertimeSeconds < 0 {
		return Timer{}, fmt.Errorf("overtime %d", r.OvertimeSeconds)
	}

	t := Timer{
		ID:               r.ID,
		Name:             r.Name,
		InitialSeconds:   r.InitialTime,
		RemainingSeconds: r.RemainingTime,
		OvertimeSeconds:  r.OvertimeSeconds,
		Status:           r.Status,
	}
	if t.Status == StatusRunning {
		t.Status = StatusPaused
	}
	if t.Status != StatusOvertime {
		t.OvertimeSeconds = 0
	}
	if r.StartedAt != nil {
		at, err := time.Parse(time.RFC3339Nano, *r.StartedAt)
		if err != nil {
			return Timer{}, fmt.Errorf("startedAt: %v", err)
		}
		t.StartedAt = &at
	}
	return t, nil
}
