// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken struct {
	mu    sync.Mutex
	token string
}

func (s *staticToken) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *staticToken) set(v string) {
	s.mu.Lock()
	s.token = v
	s.mu.Unlock()
}

func TestTransport_AttachesBearerOnlyWithToken(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tokens := &staticToken{}
	client := NewClient(tokens, nil, "moa-admin/test", 5*time.Second)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/anything", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer stale")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	tokens.set("abc")
	resp, err = client.Get(srv.URL + "/anything")
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0], "anonymous requests carry no credential")
	assert.Equal(t, "Bearer abc", seen[1])
	assert.Equal(t, "Bearer stale", req.Header.Get("Authorization"), "caller request must not be mutated")
}

func TestTransport_SetsDefaultHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "moa-admin/test", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(&staticToken{}, nil, "moa-admin/test", 5*time.Second)
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestTransport_ReportsEvery401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/users" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"total_users":1}`))
	}))
	defer srv.Close()

	var events []UnauthorizedEvent
	tokens := &staticToken{token: "expired"}
	api := New(srv.URL, NewClient(tokens, func(ev UnauthorizedEvent) {
		events = append(events, ev)
	}, "", 5*time.Second))

	_, err := api.Analytics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = api.ListUsers(context.Background(), ListParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Could not validate credentials", se.Message)

	require.Len(t, events, 1)
	assert.Equal(t, UnauthorizedEvent{Method: http.MethodGet, Path: "/api/v1/users", HadCredential: true, Token: "expired"}, events[0])
}

func TestTransport_401WithoutCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var got *UnauthorizedEvent
	client := NewClient(&staticToken{}, func(ev UnauthorizedEvent) { got = &ev }, "", 5*time.Second)
	resp, err := client.Get(srv.URL + "/api/v1/auth/token")
	require.NoError(t, err)
	resp.Body.Close()

	require.NotNil(t, got)
	assert.False(t, got.HadCredential)
	assert.Empty(t, got.Token)
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Bearer abc", want: "abc"},
		{in: "bearer   xyz ", want: "xyz"},
		{in: "Basic abc", want: ""},
		{in: "Bearer", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBearerToken(tt.in))
		})
	}
}
