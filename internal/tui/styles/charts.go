package styles

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Bar renders value/total as a horizontal bar of width cells
func Bar(value, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 && value > 0 {
		filled = int(math.Round(float64(width) * float64(value) / float64(total)))
		// A non-zero value always gets at least one cell
		filled = min(width, filled)
		if filled == 0 {
			filled = 1
		}
	}
	return BarFullStyle.Render(strings.Repeat("█", filled)) +
		BarEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// BarRow is one row of a horizontal bar chart
type BarRow struct {
	Label string
	Value int
	Note  string // Printed after the bar, e.g. an average price
}

// BarChart renders rows as labelled horizontal bars scaled to the largest
// value. Labels are padded to the widest one.
func BarChart(rows []BarRow, width int) string {
	if len(rows) == 0 {
		return DimStyle.Render("Chưa có dữ liệu")
	}

	labelWidth, countWidth, maxValue := 0, 0, 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
		countWidth = max(countWidth, len(strconv.Itoa(r.Value)))
		maxValue = max(maxValue, r.Value)
	}
	labelWidth = min(labelWidth, max(width/3, 8))

	noteWidth := 0
	for _, r := range rows {
		noteWidth = max(noteWidth, lipgloss.Width(r.Note))
	}

	barWidth := width - labelWidth - countWidth - 3
	if noteWidth > 0 {
		barWidth -= noteWidth + 2
	}
	barWidth = max(barWidth, 5)

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		count := strings.Repeat(" ", countWidth-len(strconv.Itoa(r.Value))) + strconv.Itoa(r.Value)
		line := SubtitleStyle.Render(Pad(r.Label, labelWidth)) + " " +
			Bar(r.Value, maxValue, barWidth) + " " +
			TitleStyle.Render(count)
		if r.Note != "" {
			line += "  " + DimStyle.Render(r.Note)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Sparkline renders values as a one-line series of block levels.
// A flat series renders at the lowest level.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	top := len(sparkLevels) - 1
	var b strings.Builder
	for _, v := range values {
		level := 0
		if hi > lo {
			level = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		b.WriteRune(sparkLevels[level])
	}
	return BarFullStyle.Render(b.String())
}
