// Package terminal erases interactive prompts once they have been answered.
package terminal

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const defaultWidth = 80

const (
	clearLine = "\r\x1b[2K"
	lineUp    = "\x1b[1A"
)

// ClearPrompt erases a prompt and the answer typed after it from w, along
// with the empty line Enter left the cursor on.
func ClearPrompt(w io.Writer, prompt, input string) {
	n := utf8.RuneCountInString(prompt) + utf8.RuneCountInString(input)
	lines := wrappedLines(n, widthOf(w)) + 1

	var b strings.Builder
	for i := 0; i < lines; i++ {
		b.WriteString(clearLine)
		if i < lines-1 {
			b.WriteString(lineUp)
		}
	}
	_, _ = io.WriteString(w, b.String())
}

// widthOf returns the column count of w when it is a terminal.
func widthOf(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// wrappedLines is how many rows n characters occupy at the given width.
func wrappedLines(n, width int) int {
	if n <= 0 || width <= 0 {
		return 1
	}
	return (n + width - 1) / width
}
