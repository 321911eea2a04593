package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/Wpsi1337/exile-tracker/internal/render"
	"github.com/Wpsi1337/exile-tracker/internal/tracker"
)

const (
	ansiClear   = "\x1b[2J\x1b[H"
	ansiBold    = "\x1b[1m"
	ansiReverse = "\x1b[7m"
	ansiDim     = "\x1b[2m"
	ansiReset   = "\x1b[0m"

	// Lines consumed by chrome around the entry table: title, table label,
	// column header, graph block and status footer.
	chromeLines = 11
)

// Screen renders frames as plain ANSI to a writer. Raw mode needs explicit
// carriage returns, so every line ends in \r\n.
type Screen struct {
	w      io.Writer
	width  int
	height int
}

func NewScreen(w io.Writer, width, height int) *Screen {
	if width < 40 {
		width = 40
	}
	if height < 10 {
		height = 10
	}
	return &Screen{w: w, width: width, height: height}
}

// Resize updates the frame dimensions.
func (s *Screen) Resize(width, height int) {
	if width >= 40 {
		s.width = width
	}
	if height >= 10 {
		s.height = height
	}
}

// TableRows returns how many entry rows fit the current frame.
func (s *Screen) TableRows() int {
	rows := s.height - chromeLines
	if rows < 3 {
		rows = 3
	}
	return rows
}

// Draw renders one full frame from the view.
func (s *Screen) Draw(v tracker.View, interval int) {
	var b strings.Builder
	b.WriteString(ansiClear)

	s.line(&b, ansiBold+center(render.Title(v), s.width)+ansiReset)
	s.line(&b, render.TableLabel(v))

	widths := columnWidths(s.width)
	s.line(&b, ansiBold+formatRow(render.Columns(v.Game), widths)+ansiReset)

	rows := s.TableRows()
	if len(v.Entries) == 0 {
		msg := "No data yet"
		if v.Error != "" {
			msg = v.Error
		} else if v.SearchQuery != "" {
			msg = fmt.Sprintf("No matches for %q", v.SearchQuery)
		}
		s.line(&b, "  "+msg)
		for i := 1; i < rows; i++ {
			s.line(&b, "")
		}
	} else {
		end := v.Scroll + rows
		if end > len(v.Entries) {
			end = len(v.Entries)
		}
		for i := v.Scroll; i < end; i++ {
			text := formatRow(render.Row(v.Game, i+1, v.Entries[i]), widths)
			if i == v.Selected {
				text = ansiReverse + text + ansiReset
			}
			s.line(&b, text)
		}
		for i := end - v.Scroll; i < rows; i++ {
			s.line(&b, "")
		}
	}

	s.drawGraph(&b, v)

	s.line(&b, "")
	for _, status := range render.StatusLines(v, interval) {
		s.line(&b, ansiDim+status+ansiReset)
	}

	io.WriteString(s.w, b.String())
}

// drawGraph renders the selected entry's trend panel under the table.
func (s *Screen) drawGraph(b *strings.Builder, v tracker.View) {
	const graphHeight = 5
	if v.Selected < 0 || v.Selected >= len(v.Entries) {
		for i := 0; i <= graphHeight; i++ {
			s.line(b, "")
		}
		return
	}
	selected := v.Entries[v.Selected]
	s.line(b, ansiBold+render.GraphTitle(selected, v.SearchQuery != "")+ansiReset)
	lines := render.GraphBlock(selected.Entry.Sparkline, s.width-2, graphHeight)
	for _, line := range lines {
		s.line(b, " "+line)
	}
	for i := len(lines); i < graphHeight; i++ {
		s.line(b, "")
	}
}

func (s *Screen) line(b *strings.Builder, text string) {
	b.WriteString(truncate(text, s.width+16))
	b.WriteString("\r\n")
}

func center(text string, width int) string {
	pad := (width - len([]rune(text))) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

// truncate caps a line by rune count. The slack in the caller's budget
// covers ANSI escape bytes, which carry no width.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// columnWidths splits the frame between the six table columns, giving the
// item name whatever the fixed value columns leave over.
func columnWidths(total int) []int {
	fixed := []int{4, 0, 10, 10, 10, 12}
	used := 0
	for _, w := range fixed {
		used += w
	}
	name := total - used - len(fixed)
	if name < 12 {
		name = 12
	}
	fixed[1] = name
	return fixed
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		w := 8
		if i < len(widths) {
			w = widths[i]
		}
		runes := []rune(cell)
		if len(runes) > w {
			cell = string(runes[:w])
		}
		parts = append(parts, fmt.Sprintf("%-*s", w, cell))
	}
	return strings.Join(parts, " ")
}
