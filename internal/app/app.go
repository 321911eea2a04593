package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Wpsi1337/exile-tracker/internal/tracker"
	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

// fetchResult carries one completed fetch back to the control goroutine.
type fetchResult struct {
	req  tracker.FetchRequest
	snap *model.Snapshot
	err  error
}

// App is the terminal frontend: it owns the raw-mode lifecycle, the key
// stream, the refresh ticker and the frame loop. All controller mutation
// happens on the Run goroutine; fetches run concurrently and report back
// through a channel.
type App struct {
	logger  *zap.Logger
	ctrl    *tracker.Controller
	fetcher tracker.Fetcher

	in  *os.File
	out io.Writer

	keys    chan tracker.Key
	results chan fetchResult
}

func New(logger *zap.Logger, ctrl *tracker.Controller, fetcher tracker.Fetcher) *App {
	return &App{
		logger:  logger,
		ctrl:    ctrl,
		fetcher: fetcher,
		in:      os.Stdin,
		out:     os.Stdout,
		keys:    make(chan tracker.Key, 16),
		results: make(chan fetchResult, 4),
	}
}

// Run drives the dashboard until quit, context cancellation or a terminal
// read error.
func (a *App) Run(ctx context.Context) error {
	fd := int(a.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(a.out, "\x1b[0m\x1b[2J\x1b[H")
	}()

	width, height, err := term.GetSize(fd)
	if err != nil {
		width, height = 80, 24
	}
	screen := NewScreen(a.out, width, height)

	go a.readKeys(ctx)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	a.maybeStartFetch(ctx)
	a.draw(screen)

	for {
		select {
		case <-ctx.Done():
			a.ctrl.Persist()
			return ctx.Err()

		case <-ticker.C:
			if w, h, err := term.GetSize(fd); err == nil {
				screen.Resize(w, h)
			}
			a.maybeStartFetch(ctx)
			a.draw(screen)

		case res := <-a.results:
			a.finishFetch(ctx, res)
			a.draw(screen)

		case key, ok := <-a.keys:
			if !ok {
				a.ctrl.Persist()
				return nil
			}
			cmd := a.ctrl.MapCommand(key)
			switch cmd.Kind {
			case tracker.CmdQuit:
				a.ctrl.Persist()
				return nil
			case tracker.CmdOpenOptions:
				a.runOptions(ctx, screen)
			default:
				a.ctrl.Apply(ctx, cmd)
			}
			a.draw(screen)
		}
	}
}

func (a *App) draw(screen *Screen) {
	a.ctrl.EnsureVisible(screen.TableRows())
	screen.Draw(a.ctrl.View(), a.ctrl.Settings().Interval)
}

// readKeys feeds decoded keys to the control loop. The channel closes on a
// read error so the loop exits cleanly on EOF.
func (a *App) readKeys(ctx context.Context) {
	kr := NewKeyReader(a.in)
	defer close(a.keys)
	for {
		key, err := kr.Next()
		if err != nil {
			return
		}
		select {
		case a.keys <- key:
		case <-ctx.Done():
			return
		}
	}
}

// maybeStartFetch launches a background fetch when the refresh timer or a
// pending force demands one. Cache hits publish inside BeginRefresh without
// any fetch.
func (a *App) maybeStartFetch(ctx context.Context) {
	due, force := a.ctrl.DueForRefresh()
	if !due {
		return
	}
	a.startFetch(ctx, force)
}

func (a *App) startFetch(ctx context.Context, force bool) {
	req, ok := a.ctrl.BeginRefresh(force)
	if !ok {
		return
	}
	go func() {
		snap, err := a.fetcher.FetchOverview(ctx, req.Key.Game, req.League, req.Category, req.Key.Mode)
		select {
		case a.results <- fetchResult{req: req, snap: snap, err: err}:
		case <-ctx.Done():
		}
	}()
}

// finishFetch applies a result; a not-found prune hands back a follow-up
// request for the next category, which goes straight out as another fetch.
func (a *App) finishFetch(ctx context.Context, res fetchResult) {
	follow, ok := a.ctrl.FinishRefresh(res.req, res.snap, res.err)
	if !ok {
		return
	}
	go func() {
		snap, err := a.fetcher.FetchOverview(ctx, follow.Key.Game, follow.League, follow.Category, follow.Key.Mode)
		select {
		case a.results <- fetchResult{req: follow, snap: snap, err: err}:
		case <-ctx.Done():
		}
	}()
}

// runOptions drives the options dialog over the raw key stream. Each field
// reads one line; Escape cancels the whole dialog.
func (a *App) runOptions(ctx context.Context, screen *Screen) {
	current := a.ctrl.Settings()
	currentGame := "1"
	if current.Game == model.GamePoE2 {
		currentGame = "2"
	}

	fmt.Fprint(a.out, "\x1b[2J\x1b[H")
	fmt.Fprint(a.out, "Options: press Enter to keep existing values, Esc to cancel.\r\n\r\n")

	prompts := []string{
		fmt.Sprintf("Game (1=PoE, 2=PoE2) [%s]: ", currentGame),
		fmt.Sprintf("League [%s]: ", current.League),
		fmt.Sprintf("Refresh interval seconds [%d]: ", current.Interval),
		fmt.Sprintf("Display limit [%d]: ", current.Limit),
	}
	answers := make([]string, len(prompts))
	for i, prompt := range prompts {
		line, ok := a.promptLine(ctx, prompt)
		if !ok {
			return
		}
		answers[i] = line
	}

	a.ctrl.ApplyOptions(tracker.OptionsUpdate{
		Game:     answers[0],
		League:   answers[1],
		Interval: answers[2],
		Limit:    answers[3],
	})
	a.maybeStartFetch(ctx)
}

// promptLine reads one line from the key channel, echoing as it goes.
// Returns false when the user cancels with Escape or the stream ends.
func (a *App) promptLine(ctx context.Context, prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)
	var b strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", false
		case key, ok := <-a.keys:
			if !ok {
				return "", false
			}
			switch key.Kind {
			case tracker.KeyEnter:
				fmt.Fprint(a.out, "\r\n")
				return strings.TrimSpace(b.String()), true
			case tracker.KeyEscape:
				fmt.Fprint(a.out, "\r\n")
				return "", false
			case tracker.KeyBackspace:
				if b.Len() > 0 {
					s := b.String()
					b.Reset()
					b.WriteString(s[:len(s)-1])
					fmt.Fprint(a.out, "\b \b")
				}
			case tracker.KeyRune:
				b.WriteRune(key.Rune)
				fmt.Fprintf(a.out, "%c", key.Rune)
			}
		}
	}
}
