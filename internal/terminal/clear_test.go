package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedLines(t *testing.T) {
	tests := []struct {
		n, width, want int
	}{
		{n: 0, width: 80, want: 1},
		{n: 1, width: 80, want: 1},
		{n: 80, width: 80, want: 1},
		{n: 81, width: 80, want: 2},
		{n: 10, width: 0, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wrappedLines(tt.n, tt.width), "n=%d width=%d", tt.n, tt.width)
	}
}

func TestClearPrompt(t *testing.T) {
	var buf bytes.Buffer
	ClearPrompt(&buf, "Email or username: ", "admin@x.com")

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, clearLine), "prompt row plus the row after Enter")
	assert.Equal(t, 1, strings.Count(out, lineUp))
	assert.True(t, strings.HasSuffix(out, clearLine))
}

func TestClearPrompt_WrapsAtDefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	ClearPrompt(&buf, "Email or username: ", strings.Repeat("é", 70))

	assert.Equal(t, 3, strings.Count(buf.String(), clearLine))
	assert.Equal(t, 2, strings.Count(buf.String(), lineUp))
}
