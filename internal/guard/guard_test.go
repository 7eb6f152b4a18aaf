// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moa/admin/internal/backend"
)

type fakeSession struct {
	token         string
	authenticated bool
	validateErr   error
	// admin is the outcome the next validation produces.
	admin         bool
	validateCalls int
	events        *[]string
}

func (f *fakeSession) Token() string         { return f.token }
func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }

func (f *fakeSession) User() *backend.Identity {
	if !f.authenticated {
		return nil
	}
	return &backend.Identity{ID: 1, Email: "admin@x.com", UserType: backend.RoleAdmin}
}

func (f *fakeSession) Validate(ctx context.Context) error {
	f.validateCalls++
	if f.events != nil {
		*f.events = append(*f.events, "validate")
	}
	if f.validateErr != nil || !f.admin {
		f.token, f.authenticated = "", false
		return f.validateErr
	}
	f.authenticated = true
	return nil
}

type recordingIndicator struct{ events *[]string }

func (r recordingIndicator) Start() { *r.events = append(*r.events, "start") }
func (r recordingIndicator) Stop()  { *r.events = append(*r.events, "stop") }

func TestCheck_NoTokenSkipsValidation(t *testing.T) {
	var events []string
	s := &fakeSession{}
	g := New(s, WithIndicator(recordingIndicator{&events}))

	d := g.Check(context.Background())
	assert.Equal(t, Unauthorized, d.State)
	assert.False(t, d.Allowed())
	assert.Zero(t, s.validateCalls)
	assert.Empty(t, events, "no indicator without a validation")
}

func TestCheck_ValidTokenAuthorizes(t *testing.T) {
	var events []string
	s := &fakeSession{token: "tok", admin: true, events: &events}
	g := New(s, WithIndicator(recordingIndicator{&events}))

	d := g.Check(context.Background())
	assert.Equal(t, Authorized, d.State)
	require.NotNil(t, d.User)
	assert.Equal(t, "admin@x.com", d.User.Email)
	assert.NoError(t, d.Err)
	assert.Equal(t, []string{"start", "validate", "stop"}, events)
}

func TestCheck_ValidationFailureIsSwallowed(t *testing.T) {
	boom := errors.New("boom")
	s := &fakeSession{token: "tok", authenticated: true, validateErr: boom}
	g := New(s)

	d := g.Check(context.Background())
	assert.Equal(t, Unauthorized, d.State)
	assert.ErrorIs(t, d.Err, boom)
	assert.Nil(t, d.User)
}

func TestCheck_RevalidatesEveryEntry(t *testing.T) {
	s := &fakeSession{token: "tok", admin: true}
	g := New(s)

	g.Check(context.Background())
	g.Check(context.Background())
	assert.Equal(t, 2, s.validateCalls)
}

func TestMiddleware_RedirectsToLogin(t *testing.T) {
	s := &fakeSession{}
	g := New(s)
	served := false
	h := g.Middleware("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?page=2", nil))

	assert.False(t, served)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fusers%3Fpage%3D2", rec.Header().Get("Location"))
	assert.Zero(t, s.validateCalls)
}

func TestMiddleware_RootRedirectHasNoNext(t *testing.T) {
	g := New(&fakeSession{})
	h := g.Middleware("/login")(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestMiddleware_PassesIdentity(t *testing.T) {
	g := New(&fakeSession{token: "tok", admin: true})
	var got *backend.Identity
	h := g.Middleware("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.True(t, got.IsAdmin())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "checking", Checking.String())
	assert.Equal(t, "authorized", Authorized.String())
	assert.Equal(t, "unauthorized", Unauthorized.String())
}
