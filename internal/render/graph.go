package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/Wpsi1337/exile-tracker/internal/tracker"
)

var barLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders a price series as a one-line unicode bar strip, scaled
// to the series' own min and max. A flat series renders mid-height bars.
func Sparkline(series []float64) string {
	if len(series) == 0 {
		return ""
	}
	lo, hi := series[0], series[0]
	for _, v := range series[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var b strings.Builder
	for _, v := range series {
		idx := len(barLevels) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(barLevels)-1))
		}
		b.WriteRune(barLevels[idx])
	}
	return b.String()
}

// GraphBlock renders the 7-day trend of the selected entry as a multi-row
// bar chart with a value legend. Returns at most height lines.
func GraphBlock(series []float64, width, height int) []string {
	if len(series) == 0 || height < 2 || width < len(series) {
		return nil
	}
	lo, hi := series[0], series[0]
	for _, v := range series[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rows := height - 1
	colWidth := width / len(series)
	if colWidth < 1 {
		colWidth = 1
	}

	// Bar height per point in eighths of a row.
	eighths := make([]int, len(series))
	for i, v := range series {
		frac := 1.0
		if hi > lo {
			frac = (v - lo) / (hi - lo)
		}
		e := int(math.Round(frac * float64(rows*8)))
		if e < 1 {
			e = 1
		}
		eighths[i] = e
	}

	lines := make([]string, 0, height)
	for row := rows; row >= 1; row-- {
		var b strings.Builder
		for _, e := range eighths {
			cell := ' '
			full := e / 8
			rem := e % 8
			if full >= row {
				cell = '█'
			} else if full == row-1 && rem > 0 {
				cell = barLevels[rem-1]
			}
			for c := 0; c < colWidth; c++ {
				b.WriteRune(cell)
			}
		}
		lines = append(lines, b.String())
	}
	legend := fmt.Sprintf("min %s  max %s", FormatValue(lo), FormatValue(hi))
	lines = append(lines, legend)
	return lines
}

// GraphTitle labels the trend panel for the selected entry.
func GraphTitle(d tracker.DisplayEntry, searching bool) string {
	name := EntryLabel(d)
	if searching {
		return fmt.Sprintf("%s [%s] price trend (receive, 7-day sparkline)", name, d.Category)
	}
	return fmt.Sprintf("%s price trend (receive, 7-day sparkline)", name)
}
