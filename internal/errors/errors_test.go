package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestE_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "message only",
			err:  Auth("Incorrect credentials"),
			want: "Incorrect credentials",
		},
		{
			name: "message and cause",
			err:  Transport("request failed", stderrors.New("connection refused")),
			want: "request failed: connection refused",
		},
		{
			name: "cause only",
			err:  Wrap(KindTransport, "", stderrors.New("timeout")),
			want: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsAndKindOf(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", Auth("invalid login response"))

	assert.True(t, Is(wrapped, KindAuth))
	assert.False(t, Is(wrapped, KindTransport))
	assert.Equal(t, KindAuth, KindOf(wrapped))
	assert.Equal(t, Kind(""), KindOf(stderrors.New("plain")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "invalid login response", Message(fmt.Errorf("x: %w", Auth("invalid login response"))))
	assert.Equal(t, "plain", Message(stderrors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Transport("request failed", cause)
	assert.ErrorIs(t, err, cause)
}
