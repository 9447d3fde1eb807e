package board

import "time"

// Status is the lifecycle state of a Timer.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusOvertime Status = "overtime"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusStopped, StatusRunning, StatusPaused, StatusOvertime:
		return true
	}
	return false
}

// tickMode says which per-second update, if any, the shared tick applies to
// a timer. A timer is in exactly one mode.
type tickMode int

const (
	tickIdle tickMode = iota
	tickCountdown
	tickOvertime
)

// Timer is one user's countdown.
type Timer struct {
	ID               int64
	Name             string
	InitialSeconds   int
	RemainingSeconds int
	OvertimeSeconds  int
	Status           Status
	StartedAt        *time.Time

	mode tickMode
	// warningSeconds is copied from the board so Warning works on snapshots.
	warningSeconds int
}

// Ticking reports whether the shared tick is currently advancing the timer.
func (t Timer) Ticking() bool { return t.mode != tickIdle }

// Warning reports whether a running countdown is inside its final stretch.
func (t Timer) Warning() bool {
	return t.Status == StatusRunning &&
		t.RemainingSeconds > 0 &&
		t.RemainingSeconds <= t.warningSeconds
}

func (t *Timer) snapshot() Timer {
	c := *t
	if t.StartedAt != nil {
		at := *t.StartedAt
		c.StartedAt = &at
	}
	return c
}
