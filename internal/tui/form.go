package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timerboard/internal/board"
	"github.com/sadopc/timerboard/internal/render"
)

// formModel is the add-timer form: a name, a preset and, when the preset is
// custom, a minute count.
type formModel struct {
	board  *board.Board
	width  int
	height int

	presets        []int
	defaultMinutes int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	name   *string
	preset *string
	custom *string
}

func newFormModel(b *board.Board, presets []int, defaultMinutes int) formModel {
	if len(presets) == 0 {
		presets = board.DefaultPresets
	}
	if defaultMinutes < 1 {
		defaultMinutes = board.DefaultMinutes
	}
	n, p, c := "", "", ""
	return formModel{
		board:          b,
		presets:        presets,
		defaultMinutes: defaultMinutes,
		name:           &n,
		preset:         &p,
		custom:         &c,
	}
}

func (f *formModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

func (f formModel) show() (formModel, tea.Cmd) {
	*f.name = ""
	*f.preset = strconv.Itoa(f.defaultMinutes)
	*f.custom = ""

	var options []huh.Option[string]
	for _, p := range f.presets {
		options = append(options, huh.NewOption(render.PresetLabel(p), strconv.Itoa(p)))
	}
	options = append(options, huh.NewOption("Custom", board.CustomPreset))

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").
				CharLimit(64).
				Validate(validateName).
				Value(f.name),
			huh.NewSelect[string]().Title("Duration").
				Options(options...).
				Value(f.preset),
		).Title("Add Timer"),
		huh.NewGroup(
			huh.NewInput().Title(fmt.Sprintf("Minutes (1-%d)", board.MaxCustomMinutes)).
				Validate(validateMinutes).
				Value(f.custom),
		).Title("Custom Duration").
			WithHideFunc(func() bool { return *f.preset != board.CustomPreset }),
	).WithShowHelp(true).WithShowErrors(true)

	f.formActive = true
	return f, f.form.Init()
}

func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	if !f.formActive || f.form == nil {
		return f, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			f.formActive = false
			f.form = nil
			return f, nil
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	switch f.form.State {
	case huh.StateCompleted:
		return f.submit()
	case huh.StateAborted:
		f.formActive = false
		f.form = nil
		return f, nil
	}
	return f, cmd
}

// submit adds the timer described by the form values and closes the form.
func (f formModel) submit() (formModel, tea.Cmd) {
	f.formActive = false
	f.form = nil

	minutes := board.ParseMinutes(*f.preset, *f.custom, f.defaultMinutes)
	t, ok := f.board.Add(*f.name, minutes)
	if !ok {
		return f, func() tea.Msg {
			return statusMsg{text: "Please enter a name", isError: true}
		}
	}
	text := fmt.Sprintf("Started %s for %s", cleanName(t.Name), render.PresetLabel(minutes))
	return f, func() tea.Msg { return statusMsg{text: text} }
}

func (f formModel) view() string {
	if f.form == nil {
		return ""
	}
	return activePanelStyle.Width(f.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Timer"), "", f.form.View()),
	)
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func validateMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > board.MaxCustomMinutes {
		return fmt.Errorf("enter a whole number from 1 to %d", board.MaxCustomMinutes)
	}
	return nil
}
