package main

import (
	"fmt"
	"io"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/grahamford77/table-tennis/internal/dom"
)

// terminalWindow is the dom.Window of the CLI.  Dialogs become terminal
// prompts and navigation is printed instead of followed.
type terminalWindow struct {
	out       io.Writer
	assumeYes bool
	ask       func(msg string) (bool, error)
	navigated chan string
}

var _ dom.Window = (*terminalWindow)(nil)

func newTerminalWindow(out io.Writer, assumeYes bool) *terminalWindow {
	return &terminalWindow{
		out:       out,
		assumeYes: assumeYes,
		ask:       surveyConfirm,
		navigated: make(chan string, 1),
	}
}

func surveyConfirm(msg string) (bool, error) {
	var ok bool
	err := survey.AskOne(&survey.Confirm{Message: msg, Default: false}, &ok)
	return ok, err
}

func (w *terminalWindow) Navigate(url string) {
	fmt.Fprintf(w.out, "→ %s\n", url)
	select {
	case w.navigated <- url:
	default:
	}
}

func (w *terminalWindow) Reload() { fmt.Fprintln(w.out, "↻ page reloaded") }

// Confirm treats an interrupted or failed prompt as "no".
func (w *terminalWindow) Confirm(msg string) bool {
	if w.assumeYes {
		return true
	}
	ok, err := w.ask(msg)
	return err == nil && ok
}

func (w *terminalWindow) Alert(msg string) { fmt.Fprintln(w.out, msg) }

// awaitNavigation blocks until a navigation is printed or d elapses.
func (w *terminalWindow) awaitNavigation(d time.Duration) (string, bool) {
	select {
	case url := <-w.navigated:
		return url, true
	case <-time.After(d):
		return "", false
	}
}
