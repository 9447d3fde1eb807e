package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/sadopc/timerboard/internal/alarm"
	"github.com/sadopc/timerboard/internal/board"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Card is the view model of one timer card.
type Card struct {
	ID            int64
	Name          string
	Status        string
	StatusText    string
	Classes       string
	Display       string
	OvertimeLabel string
	Initial       string
	Started       string
	CanResume     bool
	CanPause      bool
}

// Alert is the view model of the expiry modal.
type Alert struct {
	ID      int64
	Message string
}

// Tone is the beep sequence the page plays in the browser when an alert
// appears. Durations are in milliseconds.
type Tone struct {
	Beeps      int
	Frequency  float64
	IntervalMS int64
	PulseMS    int64
	Gain       float64
}

// NewTone converts alarm options for the page.
func NewTone(o alarm.Options) Tone {
	return Tone{
		Beeps:      o.Beeps,
		Frequency:  o.Frequency,
		IntervalMS: o.Interval.Milliseconds(),
		PulseMS:    o.Pulse.Milliseconds(),
		Gain:       o.Gain,
	}
}

// View is everything the board page needs.
type View struct {
	Cards          []Card
	Alert          *Alert
	Presets        []int
	DefaultMinutes int
	Tone           Tone
}

// NewCard builds the card of t.
func NewCard(t board.Timer) Card {
	classes := []string{"timer-card", string(t.Status)}
	if t.Warning() {
		classes = append(classes, "warning")
	}
	return Card{
		ID:            t.ID,
		Name:          t.Name,
		Status:        string(t.Status),
		StatusText:    StatusText(t.Status),
		Classes:       strings.Join(classes, " "),
		Display:       Display(t),
		OvertimeLabel: "OVERTIME: " + FormatOvertime(t.OvertimeSeconds),
		Initial:       FormatTime(t.InitialSeconds, false),
		Started:       FormatStarted(t.StartedAt),
		CanResume:     t.Status == board.StatusPaused,
		CanPause:      t.Status == board.StatusRunning,
	}
}

// NewView builds the page view of a snapshot.
func NewView(s board.Snapshot, presets []int, defaultMinutes int) View {
	v := View{Presets: presets, DefaultMinutes: defaultMinutes, Tone: NewTone(alarm.DefaultOptions())}
	for _, t := range s.Timers {
		v.Cards = append(v.Cards, NewCard(t))
	}
	if s.Alerting != nil {
		v.Alert = &Alert{ID: s.Alerting.ID, Message: AlertMessage(*s.Alerting)}
	}
	return v
}

// Pages renders the board page and its live fragment. html/template escapes
// every user-supplied string for its context.
type Pages struct {
	tmpl *template.Template
}

// NewPages parses the embedded templates.
func NewPages() (*Pages, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"presetLabel": PresetLabel,
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Pages{tmpl: tmpl}, nil
}

// Page writes the full HTML document.
func (p *Pages) Page(w io.Writer, v View) error {
	return p.tmpl.ExecuteTemplate(w, "page.html", v)
}

// Board writes only the live part: cards and alert modal.
func (p *Pages) Board(w io.Writer, v View) error {
	return p.tmpl.ExecuteTemplate(w, "board", v)
}

// PresetLabel names a duration in minutes the way the add form lists it.
func PresetLabel(minutes int) string {
	switch {
	case minutes%60 == 0 && minutes >= 60:
		h := minutes / 60
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	case minutes > 60:
		return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
	case minutes == 1:
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
