package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/sadopc/timerboard/internal/board"
	"github.com/sadopc/timerboard/internal/export"
	"github.com/sadopc/timerboard/internal/render"
)

// Options configures the terminal front end.
type Options struct {
	Presets        []int
	DefaultMinutes int
	// ExportDir receives board exports. Empty means the home directory.
	ExportDir string
	Log       *logrus.Entry
}

// App is the root Bubble Tea model. It drives the board's shared tick and
// draws whatever the board last rendered to its Screen.
type App struct {
	board  *board.Board
	screen *Screen
	opts   Options
	log    *logrus.Entry
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	form      formModel
	overview  overviewModel

	help   help.Model
	status string
}

// NewApp builds the UI for b. screen must be the renderer b was built with.
func NewApp(b *board.Board, screen *Screen, opts Options) App {
	h := help.New()
	h.ShowAll = false

	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return App{
		board:      b,
		screen:     screen,
		opts:       opts,
		log:        log,
		activeView: viewBoard,
		dashboard:  newDashboardModel(b),
		form:       newFormModel(b, opts.Presets, opts.DefaultMinutes),
		overview:   newOverviewModel(),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.form.setSize(a.width, contentHeight)
		a.overview.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// The add form captures all input while open.
		if a.form.formActive {
			var cmd tea.Cmd
			a.form, cmd = a.form.update(msg)
			return a, cmd
		}

		if alerting := a.screen.current().Alerting; alerting != nil {
			return a.updateAlert(msg, alerting.ID)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.New):
			a.activeView = viewBoard
			var cmd tea.Cmd
			a.form, cmd = a.form.show()
			return a, cmd
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewBoard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewOverview
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

		if a.activeView == viewBoard {
			var cmd tea.Cmd
			a.dashboard, cmd = a.dashboard.update(msg, a.screen.current().Timers)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		a.board.Tick()
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.log.Warn(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		a.log.WithField("path", msg.path).Info("board exported")
		return a, nil
	}

	// Form internals (cursor blink and the like).
	if a.form.formActive {
		var cmd tea.Cmd
		a.form, cmd = a.form.update(msg)
		return a, cmd
	}
	return a, nil
}

// updateAlert handles keys while the alert overlay is up. Only dismissing,
// confirming the alerting timer and quitting get through.
func (a App) updateAlert(msg tea.KeyMsg, id int64) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Ack):
		a.board.CloseAlert()
	case key.Matches(msg, keys.Confirm):
		a.board.Confirm(id)
	case key.Matches(msg, keys.Reset):
		a.board.Reset(id)
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	}
	return a, nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	snap := a.screen.current()
	header := a.renderHeader()
	footer := a.renderFooter(snap)

	var content string
	switch {
	case a.form.formActive:
		content = a.form.view()
	case a.activeView == viewOverview:
		o := a.overview
		o.buildChart(snap.Timers)
		content = o.view(snap.Timers)
	default:
		content = a.dashboard.view(snap)
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Overlays
	switch {
	case snap.Alerting != nil && !a.form.formActive:
		content = lipgloss.Place(a.width, contentHeight, lipgloss.Center, lipgloss.Center,
			a.renderAlert(*snap.Alerting))
	case a.exportPicking:
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("timerboard")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter(snap board.Snapshot) string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	running, over := 0, 0
	for _, t := range snap.Timers {
		switch t.Status {
		case board.StatusRunning:
			running++
		case board.StatusOvertime:
			over++
		}
	}
	counts := ""
	if running > 0 {
		counts += successStyle.Render(fmt.Sprintf(" ● %d running", running))
	}
	if over > 0 {
		counts += errorStyle.Render(fmt.Sprintf(" ▲ %d overtime", over))
	}

	left := footerStyle.Render(helpView)
	right := counts + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderAlert(t board.Timer) string {
	t.Name = cleanName(t.Name)
	lines := []string{
		errorStyle.Bold(true).Render("⏰ " + render.AlertMessage(t)),
		"",
		mutedStyle.Render("Overtime: " + render.FormatOvertime(t.OvertimeSeconds)),
		"",
		highlightStyle.Render("esc/enter: OK  c: confirm  r: reset"),
	}
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

var exportFormats = []string{"CSV", "JSON", "PDF"}

func (a App) doExport(format int) tea.Cmd {
	timers := a.board.Timers()
	dir := a.opts.ExportDir
	return func() tea.Msg {
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			dir = home
		}
		dateStr := time.Now().Format("2006-01-02")

		base := filepath.Join(dir, "timerboard-export-"+dateStr)
		var path string
		var err error
		switch format {
		case 0:
			path = base + ".csv"
			err = export.ToCSV(timers, path)
		case 1:
			path = base + ".json"
			err = export.ToJSON(timers, path)
		default:
			path = base + ".pdf"
			err = export.ToPDF(timers, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("%s export error: %v", exportFormats[format], err), isError: true}
		}

		return exportDoneMsg{path: path}
	}
}
