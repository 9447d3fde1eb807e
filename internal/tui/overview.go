package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timerboard/internal/board"
	"github.com/sadopc/timerboard/internal/render"
)

// overviewModel charts every timer: minutes left for countdowns, minutes
// over for expired ones.
type overviewModel struct {
	width  int
	height int

	chart barchart.Model
}

func newOverviewModel() overviewModel {
	return overviewModel{chart: barchart.New(60, 12)}
}

func (o *overviewModel) setSize(w, h int) {
	o.width = w
	o.height = h
}

func (o *overviewModel) buildChart(timers []board.Timer) {
	chartWidth := max(o.width-8, 20)
	chartHeight := 12
	if o.height > 30 {
		chartHeight = 16
	}

	o.chart = barchart.New(chartWidth, chartHeight)

	remaining := lipgloss.NewStyle().Foreground(colorSecondary)
	over := lipgloss.NewStyle().Foreground(colorError)

	var bars []barchart.BarData
	for _, t := range timers {
		v := barchart.BarValue{
			Name:  "remaining",
			Value: float64(t.RemainingSeconds) / 60,
			Style: remaining,
		}
		if t.Status == board.StatusOvertime {
			v = barchart.BarValue{
				Name:  "overtime",
				Value: float64(t.OvertimeSeconds) / 60,
				Style: over,
			}
		}
		bars = append(bars, barchart.BarData{
			Label:  truncate(cleanName(t.Name), 8),
			Values: []barchart.BarValue{v},
		})
	}

	if len(bars) > 0 {
		o.chart.PushAll(bars)
	}
	o.chart.Draw()
}

func (o overviewModel) view(timers []board.Timer) string {
	w := o.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Overview"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d timers", len(timers))),
	)

	if len(timers) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("  Nothing to chart yet")),
		)
	}

	legend := "  " + lipgloss.NewStyle().Foreground(colorSecondary).Render("●") + " minutes left  " +
		lipgloss.NewStyle().Foreground(colorError).Render("●") + " minutes over"

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", o.chart.View(), "", legend, "", o.renderTable(w, timers),
		),
	)
}

func (o overviewModel) renderTable(w int, timers []board.Timer) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-20s %-10s %10s %10s", "Name", "Status", "Time", "Initial")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(min(w-6, 54), 0))))

	for _, t := range timers {
		name := truncate(cleanName(t.Name), 20)
		pad := max(20-lipgloss.Width(name), 0)
		rows = append(rows, fmt.Sprintf("  %s%s %-10s %10s %10s",
			name, strings.Repeat(" ", pad),
			render.StatusText(t.Status),
			render.Display(t),
			render.FormatTime(t.InitialSeconds, false),
		))
	}
	return strings.Join(rows, "\n")
}
