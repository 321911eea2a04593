package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Wpsi1337/exile-tracker/internal/tracker"
	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

var levelWord = regexp.MustCompile(`\bLevel\b`)

// Columns returns the value-column headers for a game. PoE 2 prices in
// exalted first, classic PoE in chaos first.
func Columns(game model.Game) []string {
	if game == model.GamePoE {
		return []string{"#", "Item", "Chaos", "Exalted", "Divine", "Volume/Hour"}
	}
	return []string{"#", "Item", "Exalted", "Chaos", "Divine", "Volume/Hour"}
}

// EntryLabel shortens gem names so level prefixes fit narrow columns.
func EntryLabel(d tracker.DisplayEntry) string {
	if d.NormalizedCategory == "uncutgems" {
		return levelWord.ReplaceAllString(d.Entry.Name, "Lvl")
	}
	return d.Entry.Name
}

// FormatValue renders a price with precision that scales to magnitude.
// Non-positive values render as "--".
func FormatValue(v float64) string {
	switch {
	case v <= 0:
		return "--"
	case v >= 1000:
		return groupThousands(fmt.Sprintf("%.0f", v))
	case v >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatExalted renders the derived exalted ratio, "--" when no baseline
// applied.
func FormatExalted(v *float64) string {
	if v == nil {
		return "--"
	}
	return FormatValue(*v)
}

// FormatVolume renders hourly trade volume with thousands separators.
func FormatVolume(v int) string {
	if v <= 0 {
		return "--"
	}
	return groupThousands(fmt.Sprintf("%d", v))
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Row builds the table cells for one display entry at the given rank.
func Row(game model.Game, rank int, d tracker.DisplayEntry) []string {
	var values []string
	if game == model.GamePoE {
		values = []string{
			FormatValue(d.Entry.ChaosValue),
			FormatExalted(d.Entry.ExaltValue),
			FormatValue(d.Entry.DivineValue),
		}
	} else {
		values = []string{
			FormatExalted(d.Entry.ExaltValue),
			FormatValue(d.Entry.ChaosValue),
			FormatValue(d.Entry.DivineValue),
		}
	}
	cells := make([]string, 0, 6)
	cells = append(cells, fmt.Sprintf("%d", rank), EntryLabel(d))
	cells = append(cells, values...)
	cells = append(cells, FormatVolume(d.Entry.TradeVolume))
	return cells
}

// Title builds the top banner line.
func Title(v tracker.View) string {
	gameLabel := "PoE"
	if v.Game == model.GamePoE2 {
		gameLabel = "PoE 2"
	}
	modeSuffix := ""
	if v.Game == model.GamePoE {
		modeSuffix = fmt.Sprintf(" [%s]", titleCase(string(v.Mode)))
	}
	return fmt.Sprintf("Path of Exile Currency Tracker [%s] - %s (%s%s)",
		gameLabel, v.League, v.Category, modeSuffix)
}

// TableLabel is the line above the column headers: either the live search
// query or the active category.
func TableLabel(v tracker.View) string {
	if v.SearchQuery != "" {
		return "Search: " + v.SearchQuery
	}
	if v.Category == "" {
		return "Category"
	}
	if v.Game == model.GamePoE {
		return fmt.Sprintf("Category: %s [%s]", v.Category, titleCase(string(v.Mode)))
	}
	return "Category: " + v.Category
}

// StatusLines builds the footer: a state line and a controls line. The
// notice and the fetch error ride on the last line when present.
func StatusLines(v tracker.View, interval int) []string {
	var lines []string

	if v.FetchedAt.IsZero() && v.SearchQuery == "" && len(v.Entries) == 0 {
		status := "Connecting to price index..."
		if v.Game == model.GamePoE {
			status = fmt.Sprintf("Mode: %s | %s", titleCase(string(v.Mode)), status)
		}
		lines = append(lines, status)
	} else {
		lastUpdate := "--:--:--"
		if !v.FetchedAt.IsZero() {
			lastUpdate = v.FetchedAt.Local().Format("15:04:05")
		}
		var parts []string
		if v.Game == model.GamePoE {
			parts = append(parts, "Mode: "+titleCase(string(v.Mode)))
		}
		parts = append(parts, "Last update: "+lastUpdate)
		parts = append(parts, fmt.Sprintf("Refresh: %ds", interval))
		lines = append(lines, strings.Join(parts, " | "))

		controls := "q=quit r=refresh o=options ↑/↓=rows PgUp/PgDn=±5 /=search Esc=clear ←/→=category"
		if v.Game == model.GamePoE {
			controls += " Tab=mode"
		}
		if v.SearchQuery != "" {
			controls += fmt.Sprintf(" | Filter: %s (%d items)", v.SearchQuery, len(v.Entries))
		}
		lines = append(lines, controls)
	}

	if v.Notice != "" {
		lines[len(lines)-1] += " | " + v.Notice
	}
	if v.Error != "" {
		lines[len(lines)-1] += " | " + v.Error
	}
	return lines
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
