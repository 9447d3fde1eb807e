// Package alarm plays the bounded beep sequence raised when a timer runs
// into overtime.
package alarm

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/timerboard/internal/clock"
)

// Pulse describes a single beep. Gain starts at Gain and decays to
// FinalGain over Duration.
type Pulse struct {
	Frequency float64
	Duration  time.Duration
	Gain      float64
	FinalGain float64
}

// Tone produces one audible pulse. Implementations may fail when no audio
// facility is present.
type Tone interface {
	Play(p Pulse) error
}

// Options tunes the sequence.
type Options struct {
	Beeps     int
	Interval  time.Duration
	Pulse     time.Duration
	Frequency float64
	Gain      float64
}

// DefaultOptions returns five 800 Hz pulses of half a second, 600ms apart.
func DefaultOptions() Options {
	return Options{
		Beeps:     5,
		Interval:  600 * time.Millisecond,
		Pulse:     500 * time.Millisecond,
		Frequency: 800,
		Gain:      0.3,
	}
}

const finalGain = 0.01

// Alarm sequences beeps on a Tone. At most one sequence plays at a time.
type Alarm struct {
	tone  Tone
	clock clock.Clock
	opts  Options
	log   *logrus.Entry

	mu      sync.Mutex
	playing bool
	count   int
	gen     int
	pending clock.Timer
}

// New builds an Alarm. A nil tone is allowed; Play then only logs.
func New(tone Tone, clk clock.Clock, opts Options, log *logrus.Entry) *Alarm {
	if clk == nil {
		clk = clock.System
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	def := DefaultOptions()
	if opts.Beeps <= 0 {
		opts.Beeps = def.Beeps
	}
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.Pulse <= 0 {
		opts.Pulse = def.Pulse
	}
	if opts.Frequency <= 0 {
		opts.Frequency = def.Frequency
	}
	if opts.Gain <= 0 {
		opts.Gain = def.Gain
	}
	return &Alarm{tone: tone, clock: clk, opts: opts, log: log}
}

// Play starts the sequence. Calls made while a sequence is playing are
// ignored.
func (a *Alarm) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.playing {
		return
	}
	if a.tone == nil {
		a.log.Warn("audio not supported, alert is visual only")
		return
	}

	a.playing = true
	a.count = 0
	a.gen++
	a.beepLocked(a.gen)
}

// Stop cancels the sequence.
func (a *Alarm) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

// Playing reports whether a sequence is in progress.
func (a *Alarm) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

func (a *Alarm) stopLocked() {
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
	a.playing = false
}

func (a *Alarm) step(gen int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// A Stop followed by a new Play bumps gen; stale callbacks bail out.
	if gen != a.gen || !a.playing {
		return
	}
	a.pending = nil
	a.beepLocked(gen)
}

func (a *Alarm) beepLocked(gen int) {
	if a.count >= a.opts.Beeps {
		a.stopLocked()
		return
	}

	err := a.tone.Play(Pulse{
		Frequency: a.opts.Frequency,
		Duration:  a.opts.Pulse,
		Gain:      a.opts.Gain,
		FinalGain: finalGain,
	})
	if err != nil {
		a.log.WithError(err).Warn("audio not supported, alert is visual only")
		a.stopLocked()
		return
	}
	a.count++

	a.pending = a.clock.AfterFunc(a.opts.Interval, func() { a.step(gen) })
}
