// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "moa/admin/internal/errors"
)

func TestIssueToken_FormEncoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "admin@x.com", r.PostForm.Get("username"))
		assert.Equal(t, "s3cret", r.PostForm.Get("password"))
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer"}`))
	}))
	defer srv.Close()

	api := New(srv.URL+"/", NewClient(&staticToken{}, nil, "", 5*time.Second))
	token, err := api.IssueToken(context.Background(), "admin@x.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestIssueToken_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer srv.Close()

	api := New(srv.URL, nil)
	token, err := api.IssueToken(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestIssueToken_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect credentials"}`))
	}))
	defer srv.Close()

	api := New(srv.URL, nil)
	_, err := api.IssueToken(context.Background(), "admin@x.com", "wrong")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "Incorrect credentials", se.Message)
}

func TestIssueToken_TransportFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	api := New("http://"+addr, NewClient(&staticToken{}, nil, "", 2*time.Second))
	_, err = api.IssueToken(context.Background(), "a", "b")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindTransport))

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestMe_DecodesIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":7,"email":"admin@x.com","role":"admin","full_name":"Ada"}`))
	}))
	defer srv.Close()

	api := New(srv.URL, NewClient(&staticToken{token: "tok-1"}, nil, "", 5*time.Second))
	id, err := api.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.ID)
	assert.True(t, id.IsAdmin())
	assert.Equal(t, "Ada <admin@x.com>", id.DisplayName())
}

func TestIdentity_IsAdmin(t *testing.T) {
	tests := []struct {
		name string
		id   *Identity
		want bool
	}{
		{name: "nil", id: nil, want: false},
		{name: "user_type admin", id: &Identity{UserType: "admin"}, want: true},
		{name: "role admin", id: &Identity{Role: "admin"}, want: true},
		{name: "user_type user", id: &Identity{UserType: "user"}, want: false},
		{name: "both user", id: &Identity{UserType: "user", Role: "user"}, want: false},
		{name: "case sensitive", id: &Identity{Role: "Admin"}, want: false},
		{name: "empty", id: &Identity{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.IsAdmin())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "nested message", body: `{"detail":{"message":"Account locked"}}`, want: "Account locked"},
		{name: "plain detail", body: `{"detail":"Incorrect credentials"}`, want: "Incorrect credentials"},
		{name: "validation list", body: `{"detail":[{"loc":["body","username"],"msg":"field required"}]}`, want: "field required"},
		{name: "empty list", body: `{"detail":[]}`, want: ""},
		{name: "no detail", body: `{"error":"boom"}`, want: ""},
		{name: "not json", body: `<html>502</html>`, want: ""},
		{name: "empty", body: ``, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage([]byte(tt.body)))
		})
	}
}
