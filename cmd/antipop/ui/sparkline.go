package ui

import (
	"fmt"
	"math"
	"strings"

	"antipop/internal/history"
)

var blocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

const thresholdMark = "┄"

// SparklineRows lays out the newest width samples as a bar chart of height
// rows, top row first. Empty cells on the threshold row carry a dashed
// marker. Columns without a sample are blank.
func SparklineRows(samples []history.Sample, width, height int, yMax, threshold float64) []string {
	if width <= 0 || height <= 0 || yMax <= 0 {
		return nil
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	thresholdRow := -1
	if threshold > 0 && threshold < yMax {
		thresholdRow = int(threshold / yMax * float64(height))
	}

	rows := make([]string, height)
	for r := 0; r < height; r++ {
		bottom := height - 1 - r
		var b strings.Builder
		for col := 0; col < width; col++ {
			cell := 0
			if col < len(samples) {
				eighths := int(math.Round(math.Max(0, math.Min(samples[col].Voltage, yMax)) / yMax * float64(height*8)))
				cell = eighths - bottom*8
				if cell < 0 {
					cell = 0
				}
				if cell > 8 {
					cell = 8
				}
			}
			if cell == 0 && bottom == thresholdRow {
				b.WriteString(thresholdMark)
				continue
			}
			b.WriteString(blocks[cell])
		}
		rows[r] = b.String()
	}
	return rows
}

// RenderChart draws the SDZ history sparkline with an axis and title.
func RenderChart(samples []history.Sample, width, height int, yMax, threshold float64, s Styles) string {
	plotWidth := width - 5
	if plotWidth < 10 {
		plotWidth = 10
	}
	rows := SparklineRows(samples, plotWidth, height, yMax, threshold)

	var b strings.Builder
	b.WriteString(s.Title.Render("Voltage at SDZ Pin"))
	b.WriteString(" ")
	b.WriteString(s.Muted.Render(fmt.Sprintf("(last %d samples, mute below %gV)", len(samples), threshold)))
	b.WriteString("\n")
	line := fg(Notice)
	mark := fg(AmpMuted)
	for i, row := range rows {
		label := "    "
		switch i {
		case 0:
			label = fmt.Sprintf("%3.0fV", yMax)
		case len(rows) - 1:
			label = "  0V"
		}
		b.WriteString(s.Muted.Render(label))
		b.WriteString(" ")
		segments := strings.Split(row, thresholdMark)
		for j, seg := range segments {
			if j > 0 {
				b.WriteString(mark.Render(thresholdMark))
			}
			b.WriteString(line.Render(seg))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
