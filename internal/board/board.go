// Package board owns the collection of user countdown timers: their state
// machine, the shared once-per-second tick, persistence and the single
// active alert.
package board

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/timerboard/internal/clock"
)

// Storage is a string-valued durable key-value store.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// Snapshot is what renderers draw: copies of every timer in creation order
// and the timer owning the alert, if any.
type Snapshot struct {
	Timers   []Timer
	Alerting *Timer
}

// Renderer redraws the board. It is called with the board locked and must
// not call back into the board.
type Renderer interface {
	Render(s Snapshot)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(Snapshot)

func (f RenderFunc) Render(s Snapshot) { f(s) }

// Notifier is the audible part of an alert.
type Notifier interface {
	Play()
	Stop()
}

// Options tunes board behavior.
type Options struct {
	// WarningSeconds marks the last stretch of a countdown.
	WarningSeconds int
	// SaveEverySeconds bounds how often active countdowns are persisted.
	SaveEverySeconds int
}

// DefaultOptions returns a 60 second warning and saves every 10 seconds.
func DefaultOptions() Options {
	return Options{WarningSeconds: 60, SaveEverySeconds: 10}
}

// Config carries the collaborators of a Board. Every field is optional.
type Config struct {
	Storage  Storage
	Renderer Renderer
	Notifier Notifier
	Clock    clock.Clock
	Log      *logrus.Entry
	Options  Options
}

// Board is the timer lifecycle manager. Its methods are safe for
// concurrent use; commands and ticks are applied one at a time.
type Board struct {
	mu sync.Mutex

	timers   []*Timer
	alerting int64
	lastID   int64

	storage  Storage
	renderer Renderer
	notifier Notifier
	clock    clock.Clock
	log      *logrus.Entry
	opts     Options
}

// New builds a Board and restores any saved timers. Restored timers are
// idle until started explicitly.
func New(cfg Config) *Board {
	b := &Board{
		storage:  cfg.Storage,
		renderer: cfg.Renderer,
		notifier: cfg.Notifier,
		clock:    cfg.Clock,
		log:      cfg.Log,
		opts:     cfg.Options,
	}
	if b.clock == nil {
		b.clock = clock.System
	}
	if b.log == nil {
		b.log = logrus.NewEntry(logrus.StandardLogger())
	}
	def := DefaultOptions()
	if b.opts.WarningSeconds <= 0 {
		b.opts.WarningSeconds = def.WarningSeconds
	}
	if b.opts.SaveEverySeconds <= 0 {
		b.opts.SaveEverySeconds = def.SaveEverySeconds
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.load()
	b.render()
	return b
}

// Add creates a timer of the given minutes for name and starts it. Blank
// names and durations under a minute are rejected.
func (b *Board) Add(name string, minutes int) (Timer, bool) {
	name = strings.TrimSpace(name)
	if name == "" || minutes < 1 {
		return Timer{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t := &Timer{
		ID:               b.nextID(),
		Name:             name,
		InitialSeconds:   minutes * 60,
		RemainingSeconds: minutes * 60,
		Status:           StatusStopped,
		warningSeconds:   b.opts.WarningSeconds,
	}
	b.timers = append(b.timers, t)
	b.log.WithFields(logrus.Fields{"id": t.ID, "minutes": minutes}).Info("timer added")
	b.save()
	b.render()

	b.start(t)
	return t.snapshot(), true
}

// Start begins or resumes the countdown of id.
func (b *Board) Start(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t := b.find(id); t != nil {
		b.start(t)
	}
}

func (b *Board) start(t *Timer) {
	if t.Status == StatusOvertime {
		return
	}
	if t.Status != StatusPaused && t.StartedAt == nil {
		now := b.clock.Now()
		t.StartedAt = &now
	}
	t.Status = StatusRunning
	t.mode = tickCountdown
	b.save()
	b.render()
}

// Pause stops a running countdown. Other states are left alone.
func (b *Board) Pause(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.find(id)
	if t == nil || t.Status != StatusRunning {
		return
	}
	t.mode = tickIdle
	t.Status = StatusPaused
	b.save()
	b.render()
}

// Reset returns id to its initial, stopped state from any status.
func (b *Board) Reset(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.find(id)
	if t == nil {
		return
	}
	if b.alerting == t.ID {
		b.closeAlert()
	}
	t.mode = tickIdle
	t.RemainingSeconds = t.InitialSeconds
	t.Status = StatusStopped
	t.OvertimeSeconds = 0
	t.StartedAt = nil
	b.save()
	b.render()
}

// Confirm acknowledges the alert of id and removes it.
func (b *Board) Confirm(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.find(id)
	if t == nil {
		return
	}
	t.mode = tickIdle
	if b.alerting == t.ID {
		b.closeAlert()
	}
	b.remove(id)
}

// Delete removes id unconditionally.
func (b *Board) Delete(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.find(id)
	if t == nil {
		return
	}
	t.mode = tickIdle
	if b.alerting == t.ID {
		b.closeAlert()
	}
	b.remove(id)
}

// CloseAlert dismisses the current alert. Overtime keeps counting.
func (b *Board) CloseAlert() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeAlert()
	b.render()
}

func (b *Board) closeAlert() {
	if b.notifier != nil {
		b.notifier.Stop()
	}
	b.alerting = 0
}

func (b *Board) remove(id int64) {
	kept := b.timers[:0]
	for _, t := range b.timers {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(b.timers); i++ {
		b.timers[i] = nil
	}
	b.timers = kept
	b.save()
	b.render()
}

// Tick advances every ticking timer by one second. The board is saved at
// most once per tick.
func (b *Board) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed, dirty := false, false
	for _, t := range b.timers {
		switch t.mode {
		case tickCountdown:
			changed = true
			if t.RemainingSeconds > 0 {
				t.RemainingSeconds--
				if t.RemainingSeconds%b.opts.SaveEverySeconds == 0 {
					dirty = true
				}
			}
			if t.RemainingSeconds == 0 {
				b.expire(t)
				dirty = true
			}
		case tickOvertime:
			changed = true
			t.OvertimeSeconds++
		}
	}
	if dirty {
		b.save()
	}
	if changed {
		b.render()
	}
}

func (b *Board) expire(t *Timer) {
	t.mode = tickOvertime
	t.Status = StatusOvertime
	t.OvertimeSeconds = 0
	b.log.WithField("id", t.ID).Info("timer expired")

	// One alert at a time; a second expiry keeps counting silently.
	if b.alerting != 0 {
		return
	}
	b.alerting = t.ID
	if b.notifier != nil {
		b.notifier.Play()
	}
}

// Run ticks the board once per second of the board's clock until ctx is
// done.
func (b *Board) Run(ctx context.Context) {
	var (
		mu      sync.Mutex
		pending clock.Timer
		stopped bool
	)
	var step func()
	step = func() {
		if ctx.Err() != nil {
			return
		}
		b.Tick()
		mu.Lock()
		defer mu.Unlock()
		if !stopped {
			pending = b.clock.AfterFunc(time.Second, step)
		}
	}

	mu.Lock()
	pending = b.clock.AfterFunc(time.Second, step)
	mu.Unlock()

	<-ctx.Done()

	mu.Lock()
	stopped = true
	pending.Stop()
	mu.Unlock()
}

// Timers returns copies of all timers in creation order.
func (b *Board) Timers() []Timer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked().Timers
}

// Snapshot returns the current render input.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Get returns a copy of id.
func (b *Board) Get(id int64) (Timer, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t := b.find(id); t != nil {
		return t.snapshot(), true
	}
	return Timer{}, false
}

// Alerting returns the timer owning the alert.
func (b *Board) Alerting() (Timer, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t := b.find(b.alerting); t != nil {
		return t.snapshot(), true
	}
	return Timer{}, false
}

// Len returns the number of timers.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.timers)
}

func (b *Board) find(id int64) *Timer {
	if id == 0 {
		return nil
	}
	for _, t := range b.timers {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (b *Board) snapshotLocked() Snapshot {
	s := Snapshot{Timers: make([]Timer, 0, len(b.timers))}
	for _, t := range b.timers {
		c := t.snapshot()
		s.Timers = append(s.Timers, c)
		if t.ID == b.alerting {
			a := c
			s.Alerting = &a
		}
	}
	return s
}

func (b *Board) render() {
	if b.renderer != nil {
		b.renderer.Render(b.snapshotLocked())
	}
}

// nextID hands out wall-clock milliseconds, bumped past any id already
// issued so two adds in the same millisecond stay distinct.
func (b *Board) nextID() int64 {
	id := b.clock.Now().UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return id
}
