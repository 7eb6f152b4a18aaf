// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"moa/admin/internal/backend"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: Timeout},
		{name: "gateway timeout", err: &backend.StatusError{Code: 504}, want: Timeout},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "api.example"}, want: DNS},
		{name: "refused", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: ConnectionRefused},
		{name: "tls", err: errors.New("x509: certificate signed by unknown authority"), want: TLS},
		{name: "server", err: &backend.StatusError{Code: 500, Message: "boom"}, want: Server},
		{name: "client error", err: &backend.StatusError{Code: 404}, want: Generic},
		{name: "other", err: errors.New("weird"), want: Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsNetworkError(t *testing.T) {
	assert.False(t, IsNetworkError(nil))
	assert.False(t, IsNetworkError(&backend.StatusError{Code: 400}))
	assert.True(t, IsNetworkError(&backend.StatusError{Code: 502}))
	assert.True(t, IsNetworkError(&net.DNSError{Err: "no such host"}))
}

func TestFormatNetworkErrorWraps(t *testing.T) {
	cause := &backend.StatusError{Code: 503}
	err := FormatNetworkError(cause, "loading users", "api.myotherapp.com")
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, FormatNetworkError(nil, "x", ""))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "api.myotherapp.com", HostOf("https://api.myotherapp.com"))
	assert.Equal(t, "", HostOf("not a url"))
}
