package tui

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/sadopc/timerboard/internal/board"
)

// viewState represents the currently active view.
type viewState int

const (
	viewBoard viewState = iota
	viewOverview
)

var viewNames = []string{"Board", "Overview"}

// Screen is the board's renderer in terminal mode. The board hands it a
// fresh snapshot after every change and the App draws the latest one.
type Screen struct {
	mu   sync.Mutex
	snap board.Snapshot
}

func NewScreen() *Screen { return &Screen{} }

// Render implements board.Renderer.
func (s *Screen) Render(snap board.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Screen) current() board.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// cleanName makes a user-supplied name safe to print: escape sequences are
// removed and control characters dropped.
func cleanName(name string) string {
	name = ansi.Strip(name)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
}

func truncate(s string, width int) string {
	if width < 1 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// indexOf returns the position of id in timers, or -1.
func indexOf(timers []board.Timer, id int64) int {
	for i, t := range timers {
		if t.ID == id {
			return i
		}
	}
	return -1
}
