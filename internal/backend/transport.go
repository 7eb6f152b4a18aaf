// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"strings"
)

// TokenSource supplies the bearer credential for outgoing requests.
// The session store implements it; an empty token means anonymous.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// UnauthorizedEvent describes an API response with status 401.
type UnauthorizedEvent struct {
	Method string
	Path   string
	// HadCredential is true when the request carried a bearer token,
	// i.e. a live session was rejected rather than a login attempt.
	HadCredential bool
	// Token is the credential the rejected request carried, empty without one.
	Token string
}

// UnauthorizedFunc is notified of every 401, whatever the call site.
type UnauthorizedFunc func(UnauthorizedEvent)

// Transport is the request authorization interceptor. It attaches the
// current bearer token to every request and reports every 401 to its
// subscriber, which is expected to clear the session and send the user to login.
type Transport struct {
	Base           http.RoundTripper
	Tokens         TokenSource
	OnUnauthorized UnauthorizedFunc
	UserAgent      string
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, tokens TokenSource, onUnauthorized UnauthorizedFunc) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Tokens: tokens, OnUnauthorized: onUnauthorized}
}

// RoundTrip implements http.RoundTripper. The caller's request is never mutated.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	token := ""
	if t.Tokens != nil {
		token = strings.TrimSpace(t.Tokens.Token())
	}
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	} else {
		out.Header.Del("Authorization")
	}
	if out.Header.Get("Accept") == "" {
		out.Header.Set("Accept", "application/json")
	}
	if t.UserAgent != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.UserAgent)
	}

	resp, err := t.Base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && t.OnUnauthorized != nil {
		t.OnUnauthorized(UnauthorizedEvent{
			Method:        req.Method,
			Path:          req.URL.Path,
			HadCredential: token != "",
			Token:         token,
		})
	}
	return resp, nil
}

// parseBearerToken extracts token from a value like "Bearer <token>" case-insensitively.
// Returns the token string without the "Bearer " prefix, or empty string if invalid format.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 || !strings.EqualFold(v[:6], "bearer") || v[6] != ' ' {
		return ""
	}
	return strings.TrimSpace(v[7:])
}
