package tracker

import "context"

// KeyKind is a decoded terminal key, produced by the input collaborator.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyTab
	KeyBackTab
	KeyEnter
	KeyEscape
	KeyBackspace
)

// Key is one decoded input event.
type Key struct {
	Kind KeyKind
	Rune rune
}

// CommandKind is the semantic action a key maps to.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdQuit
	CmdForceRefresh
	CmdMoveSelection
	CmdCycleCategory
	CmdTogglePriceMode
	CmdStartSearch
	CmdAppendSearch
	CmdBackspaceSearch
	CmdConfirmSearch
	CmdCancelSearch
	CmdOpenOptions
)

// Command is a decoded action. Delta carries the step for selection and
// category movement; Rune carries the character for search input.
type Command struct {
	Kind  CommandKind
	Delta int
	Rune  rune
}

// MapCommand translates a key into a command. Mapping is modal: while a
// search query is live, printable characters, backspace and enter feed the
// query instead of their normal bindings. Escape always clears an active
// search; options and the mode toggle stay reachable in every mode.
func (c *Controller) MapCommand(key Key) Command {
	c.mu.Lock()
	searching := c.searchActive || c.searchQuery != ""
	c.mu.Unlock()

	switch key.Kind {
	case KeyEscape:
		if searching {
			return Command{Kind: CmdCancelSearch}
		}
		return Command{Kind: CmdNone}
	case KeyTab, KeyBackTab:
		return Command{Kind: CmdTogglePriceMode}
	case KeyEnter:
		if searching {
			return Command{Kind: CmdConfirmSearch}
		}
		return Command{Kind: CmdNone}
	case KeyBackspace:
		if searching {
			return Command{Kind: CmdBackspaceSearch}
		}
		return Command{Kind: CmdNone}
	case KeyDown:
		return Command{Kind: CmdMoveSelection, Delta: 1}
	case KeyUp:
		return Command{Kind: CmdMoveSelection, Delta: -1}
	case KeyPageDown:
		return Command{Kind: CmdMoveSelection, Delta: 5}
	case KeyPageUp:
		return Command{Kind: CmdMoveSelection, Delta: -5}
	case KeyRight:
		return Command{Kind: CmdCycleCategory, Delta: 1}
	case KeyLeft:
		return Command{Kind: CmdCycleCategory, Delta: -1}
	}

	// Options opens from anywhere, even mid-search.
	if key.Rune == 'o' || key.Rune == 'O' {
		return Command{Kind: CmdOpenOptions}
	}
	if searching {
		return Command{Kind: CmdAppendSearch, Rune: key.Rune}
	}

	switch key.Rune {
	case 'q', 'Q':
		return Command{Kind: CmdQuit}
	case 'r', 'R':
		return Command{Kind: CmdForceRefresh}
	case '/':
		return Command{Kind: CmdStartSearch}
	case 'j':
		return Command{Kind: CmdMoveSelection, Delta: 1}
	case 'k':
		return Command{Kind: CmdMoveSelection, Delta: -1}
	}
	return Command{Kind: CmdNone}
}

// Apply executes a command against the controller. Quit and options are
// handled by the caller (they end the loop or need prompt I/O); for those
// Apply is a no-op and returns the command kind untouched.
func (c *Controller) Apply(ctx context.Context, cmd Command) {
	switch cmd.Kind {
	case CmdForceRefresh:
		c.ForceRefresh()
	case CmdMoveSelection:
		c.MoveSelection(cmd.Delta)
	case CmdCycleCategory:
		c.CycleCategory(ctx, cmd.Delta)
	case CmdTogglePriceMode:
		c.TogglePriceMode()
	case CmdStartSearch:
		c.StartSearch()
	case CmdAppendSearch:
		c.AppendSearch(cmd.Rune)
	case CmdBackspaceSearch:
		c.BackspaceSearch()
	case CmdConfirmSearch:
		c.ConfirmSearch(ctx)
	case CmdCancelSearch:
		c.CancelSearch()
	}
}
