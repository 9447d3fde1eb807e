package web

import (
	"time"

	"github.com/sadopc/timerboard/internal/board"
	"github.com/sadopc/timerboard/internal/render"
)

// Timer is the JSON form of a board timer.
type Timer struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	InitialTime     int        `json:"initialTime"`
	RemainingTime   int        `json:"remainingTime"`
	OvertimeSeconds int        `json:"overtimeSeconds"`
	StartedAt       *time.Time `json:"startedAt"`
	Display         string     `json:"display"`
	Warning         bool       `json:"warning"`
}

// BoardResponse is the body of GET /api/v1/timers.
type BoardResponse struct {
	Timers   []Timer `json:"timers"`
	Alerting *int64  `json:"alerting"`
}

// CreateRequest is the JSON body of POST /api/v1/timers. Preset is a number
// of minutes or "custom", in which case Custom holds the minutes.
type CreateRequest struct {
	Name   string `json:"name"`
	Preset string `json:"preset"`
	Custom string `json:"custom"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func newTimer(t board.Timer) Timer {
	return Timer{
		ID:              t.ID,
		Name:            t.Name,
		Status:          string(t.Status),
		InitialTime:     t.InitialSeconds,
		RemainingTime:   t.RemainingSeconds,
		OvertimeSeconds: t.OvertimeSeconds,
		StartedAt:       t.StartedAt,
		Display:         render.Display(t),
		Warning:         t.Warning(),
	}
}

func newBoardResponse(s board.Snapshot) BoardResponse {
	resp := BoardResponse{Timers: make([]Timer, 0, len(s.Timers))}
	for _, t := range s.Timers {
		resp.Timers = append(resp.Timers, newTimer(t))
	}
	if s.Alerting != nil {
		id := s.Alerting.ID
		resp.Alerting = &id
	}
	return resp
}
