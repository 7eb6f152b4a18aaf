// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startInlineSpinner draws frames followed by text on one line until the
// returned stop function is called. The line is cleared on stop and the
// cursor is hidden while the spinner runs.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	cursor.Hide()
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			cursor.Show()
		})
	}
}

// spinnerIndicator is the guard's loading indicator on a terminal.
// It draws nothing when stderr is not a terminal.
type spinnerIndicator struct {
	text string
	stop func()
}

func newSpinnerIndicator(text string) *spinnerIndicator {
	return &spinnerIndicator{text: text}
}

func (s *spinnerIndicator) Start() {
	if !isTerminal(os.Stderr) {
		return
	}
	s.stop = startInlineSpinner(os.Stderr, s.text, spinnerFrames, 100*time.Millisecond)
}

func (s *spinnerIndicator) Stop() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// withSpinner runs fn behind a spinner on interactive terminals.
func withSpinner(text string, fn func() error) error {
	ind := newSpinnerIndicator(text)
	ind.Start()
	defer ind.Stop()
	return fn()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// outputJSON reports whether --output json was requested.
func outputJSON() bool {
	return strings.EqualFold(flagOutput, "json")
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render prints v as JSON or as a table built by rows (header first).
func render(v any, rows func() [][]string) error {
	if outputJSON() {
		return printJSON(v)
	}
	data := rows()
	if len(data) <= 1 {
		pterm.Println("No results.")
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// pageFooter describes the pagination position under a table.
func pageFooter(page, pages, total int) {
	if outputJSON() {
		return
	}
	pterm.Println(pterm.NewStyle(pterm.FgGray).Sprintf("Page %d of %d · %d total", page, max(pages, 1), total))
}

// parseID parses a positive numeric id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive number", arg)
	}
	return id, nil
}

// confirm asks before destructive actions unless --yes was given.
func confirm(question string, yes bool) bool {
	if yes {
		return true
	}
	if !isTerminal(os.Stdin) {
		pterm.Warning.Println("Refusing to continue without --yes on a non-interactive terminal.")
		return false
	}
	ok, _ := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(question)
	return ok
}

func boolMark(v *bool) string {
	switch {
	case v == nil:
		return "-"
	case *v:
		return "yes"
	default:
		return "no"
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
