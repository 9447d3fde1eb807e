package export

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sadopc/timerboard/internal/board"
)

// ToPDF writes the timers as a table to path.
func ToPDF(timers []board.Timer, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Timer Board")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, "Exported "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(12)

	if len(timers) == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, "No active timers.")
	} else {
		writeTable(pdf, tr, timers)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf file: %w", err)
	}
	return nil
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, timers []board.Timer) {
	widths := []float64{60, 30, 30, 30, 30}
	pdf.SetFont("Arial", "B", 11)
	for i, h := range []string{"Name", "Status", "Remaining", "Overtime", "Started"} {
		pdf.CellFormat(widths[i], 8, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 11)
	for _, t := range timers {
		started := ""
		if t.StartedAt != nil {
			started = t.StartedAt.Local().Format("15:04:05")
		}
		cells := []string{
			tr(t.Name),
			string(t.Status),
			formatDuration(int64(t.RemainingSeconds)),
			formatDuration(int64(t.OvertimeSeconds)),
			started,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
