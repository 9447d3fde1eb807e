package alarm

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrToneUnavailable is returned by tones that cannot make sound.
var ErrToneUnavailable = errors.New("tone generation unavailable")

// Bell rings the terminal bell once per pulse. Terminals do not expose
// pitch or volume, so the pulse shape is ignored.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Play(Pulse) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.w == nil {
		return ErrToneUnavailable
	}
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// Unavailable is the tone of a runtime without audio.
type Unavailable struct{}

func (Unavailable) Play(Pulse) error { return ErrToneUnavailable }
