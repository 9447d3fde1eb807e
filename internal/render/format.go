// Package render turns board snapshots into display text and HTML. It is a
// pure function of the snapshot: nothing here mutates the board.
package render

import (
	"fmt"
	"time"

	"github.com/sadopc/timerboard/internal/board"
)

// FormatTime renders seconds as MM:SS, or HH:MM:SS from one hour up.
// Overtime values get a leading plus sign.
func FormatTime(seconds int, overtime bool) string {
	if seconds < 0 {
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	prefix := ""
	if overtime {
		prefix = "+"
	}
	if h > 0 {
		return fmt.Sprintf("%s%02d:%02d:%02d", prefix, h, m, s)
	}
	return fmt.Sprintf("%s%02d:%02d", prefix, m, s)
}

// FormatOvertime describes how long a timer has been over.
func FormatOvertime(seconds int) string {
	if seconds < 60 {
		if seconds == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", seconds)
	}
	return fmt.Sprintf("%d min %d sec", seconds/60, seconds%60)
}

var statusText = map[board.Status]string{
	board.StatusStopped:  "Stopped",
	board.StatusRunning:  "Running",
	board.StatusPaused:   "Paused",
	board.StatusOvertime: "Overtime",
}

// StatusText is the label shown on a card's badge.
func StatusText(s board.Status) string {
	if t, ok := statusText[s]; ok {
		return t
	}
	return string(s)
}

// FormatStarted renders a start time in local wall-clock form, or "" when
// the timer has not started.
func FormatStarted(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("15:04:05")
}

// Display is the big number on a card: remaining time, or overtime once
// expired.
func Display(t board.Timer) string {
	if t.Status == board.StatusOvertime {
		return FormatTime(t.OvertimeSeconds, true)
	}
	return FormatTime(t.RemainingSeconds, false)
}

// AlertMessage is the text of the expiry notification.
func AlertMessage(t board.Timer) string {
	return fmt.Sprintf("Time is up for %s!", t.Name)
}
