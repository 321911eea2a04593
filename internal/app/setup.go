package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Wpsi1337/exile-tracker/internal/settings"
	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

// PromptInitialSettings runs the first-start setup dialog on a cooked
// terminal. It loops until a valid game and a non-blank league are given.
func PromptInitialSettings(in io.Reader, out io.Writer) settings.Settings {
	r := bufio.NewReader(in)

	fmt.Fprintln(out, "Path of Exile Currency Tracker - Initial Setup")
	fmt.Fprintln(out, "Select game:")
	fmt.Fprintln(out, " 1: PoE (original client)")
	fmt.Fprintln(out, " 2: PoE2")

	var game model.Game
	for {
		choice := readLine(r, out, "Enter choice (1 or 2): ")
		switch choice {
		case "1", "poe":
			game = model.GamePoE
		case "2", "poe2", "":
			game = model.GamePoE2
		default:
			fmt.Fprintln(out, "Please enter 1 for PoE or 2 for PoE2.")
			continue
		}
		break
	}

	var league string
	for {
		league = readLine(r, out, "Enter target league: ")
		if league != "" {
			break
		}
		fmt.Fprintln(out, "League cannot be blank.")
	}

	return settings.Sanitize(settings.Settings{Game: game, League: league})
}

func readLine(r *bufio.Reader, out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
