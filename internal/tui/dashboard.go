package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timerboard/internal/board"
	"github.com/sadopc/timerboard/internal/render"
)

const cardWidth = 26

// dashboardModel is the card grid. It keeps the selection by id so deletes
// do not shift it onto a neighbor unexpectedly.
type dashboardModel struct {
	board  *board.Board
	width  int
	height int

	selected int64
}

func newDashboardModel(b *board.Board) dashboardModel {
	return dashboardModel{board: b}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

// cursor resolves the selection against timers, falling back to the first.
func (d dashboardModel) cursor(timers []board.Timer) int {
	if len(timers) == 0 {
		return -1
	}
	if i := indexOf(timers, d.selected); i >= 0 {
		return i
	}
	return 0
}

func (d dashboardModel) update(msg tea.Msg, timers []board.Timer) (dashboardModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	i := d.cursor(timers)
	if i < 0 {
		return d, nil
	}
	perRow := d.perRow()

	switch {
	case key.Matches(km, keys.Left):
		i--
	case key.Matches(km, keys.Right):
		i++
	case key.Matches(km, keys.Up):
		i -= perRow
	case key.Matches(km, keys.Down):
		i += perRow
	case key.Matches(km, keys.Start):
		d.board.Start(timers[i].ID)
		return d, nil
	case key.Matches(km, keys.Pause):
		d.board.Pause(timers[i].ID)
		return d, nil
	case key.Matches(km, keys.Reset):
		d.board.Reset(timers[i].ID)
		return d, nil
	case key.Matches(km, keys.Confirm):
		d.board.Confirm(timers[i].ID)
		d.selected = neighbor(timers, i)
		return d, nil
	case key.Matches(km, keys.Delete):
		name := cleanName(timers[i].Name)
		d.board.Delete(timers[i].ID)
		d.selected = neighbor(timers, i)
		return d, func() tea.Msg { return statusMsg{text: "Deleted " + name} }
	default:
		return d, nil
	}

	i = max(0, min(i, len(timers)-1))
	d.selected = timers[i].ID
	return d, nil
}

// neighbor is the id to select once timers[i] is gone.
func neighbor(timers []board.Timer, i int) int64 {
	switch {
	case i+1 < len(timers):
		return timers[i+1].ID
	case i > 0:
		return timers[i-1].ID
	}
	return 0
}

func (d dashboardModel) perRow() int {
	n := d.width / (cardWidth + 2)
	return max(n, 1)
}

func (d dashboardModel) view(s board.Snapshot) string {
	if d.width < cardWidth+4 {
		return "Terminal too small"
	}
	if len(s.Timers) == 0 {
		hint := mutedStyle.Render("Press n to add a timer")
		return panelStyle.Width(d.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("No active timers. Add someone to get started!"),
			"",
			hint,
		))
	}

	cur := d.cursor(s.Timers)
	perRow := d.perRow()

	var rows []string
	var row []string
	for i, t := range s.Timers {
		row = append(row, renderCard(t, i == cur))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func renderCard(t board.Timer, selected bool) string {
	inner := cardWidth - 4

	display := render.Display(t)
	var displayStyle lipgloss.Style
	switch {
	case t.Status == board.StatusOvertime:
		displayStyle = timerOvertimeStyle
	case t.Warning():
		displayStyle = timerWarningStyle
	case t.Status == board.StatusRunning:
		displayStyle = timerRunningStyle
	case t.Status == board.StatusPaused:
		displayStyle = timerPausedStyle
	default:
		displayStyle = timerStyle
	}

	lines := []string{
		titleStyle.Render(truncate(cleanName(t.Name), inner)),
		displayStyle.Render(display),
		subtitleStyle.Render(render.StatusText(t.Status)),
	}
	if t.Status == board.StatusOvertime {
		lines = append(lines, errorStyle.Render(truncate("OVERTIME: "+render.FormatOvertime(t.OvertimeSeconds), inner)))
	}
	lines = append(lines, mutedStyle.Render("Initial: "+render.FormatTime(t.InitialSeconds, false)))
	if started := render.FormatStarted(t.StartedAt); started != "" {
		lines = append(lines, mutedStyle.Render("Started: "+started))
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	if t.Status == board.StatusOvertime {
		style = style.BorderForeground(colorError)
	} else if t.Warning() {
		style = style.BorderForeground(colorWarning)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
