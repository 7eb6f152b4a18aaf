// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moa/admin/internal/backend"
	"moa/admin/internal/guard"
	"moa/admin/internal/keychain"
	"moa/admin/internal/session"
)

type fakeMOA struct {
	usersStatus atomic.Int32
	usersCalls  atomic.Int32
	meCalls     atomic.Int32
	approves    atomic.Int32
}

func (f *fakeMOA) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/auth/token":
		_ = r.ParseForm()
		if r.PostForm.Get("password") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1"}`))
	case "/api/v1/auth/me":
		f.meCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"email":"admin@x.com","user_type":"admin"}`))
	case "/api/v1/users":
		f.usersCalls.Add(1)
		if code := f.usersStatus.Load(); code != 0 {
			w.WriteHeader(int(code))
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":1,"email":"ada@x.com"}],"total":1,"page":1,"size":50,"pages":1}`))
	case "/api/v1/admin/analytics":
		_, _ = w.Write([]byte(`{"total_users":10,"verified_clubs":2,"events_hosted":3,"platform_revenue":12.5}`))
	case "/api/v1/clubs/4/approve":
		f.approves.Add(1)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type fixture struct {
	fake    *fakeMOA
	store   *session.Store
	handler http.Handler
	// cookies plays the browser's cookie jar for the console host.
	cookies map[string]*http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := &fakeMOA{}
	api := httptest.NewServer(fake)
	t.Cleanup(api.Close)

	var store *session.Store
	client := backend.NewClient(
		backend.TokenFunc(func() string { return store.Token() }),
		func(ev backend.UnauthorizedEvent) { store.HandleUnauthorized(ev) },
		"moa-admin/test",
		5*time.Second,
	)
	be := backend.New(api.URL, client)
	store = session.New(be, keychain.NewManagerWithRing(keyring.NewArrayKeyring(nil)), nil)

	srv := New(store, guard.New(store), be, nil)
	return &fixture{fake: fake, store: store, handler: srv.Router(), cookies: map[string]*http.Cookie{}}
}

func (f *fixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	return f.send(method, target, form, nil)
}

// send issues a request with the stored cookies plus headers, then records
// any cookies the console sets.
func (f *fixture) send(method, target string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(f.cookies, c.Name)
			continue
		}
		f.cookies[c.Name] = c
	}
	return rec
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	rec := f.do(http.MethodPost, "/login", url.Values{"username": {"admin@x.com"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, session.Authenticated, f.store.State())
}

func TestConsole_AnonymousIsSentToLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fusers", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Zero(t, f.fake.usersCalls.Load())
	assert.Zero(t, f.fake.meCalls.Load(), "no token means no validation")
}

func TestConsole_UnknownPathGoesToRoot(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/definitely/not/here", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = f.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestConsole_LoginPage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/login?next=%2Fclubs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="next" value="/clubs"`)
}

func TestConsole_LoginFailureShowsMessage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/login", url.Values{"username": {"admin@x.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect credentials")
	assert.Equal(t, session.Anonymous, f.store.State())
}

func TestConsole_LoginRequiresFields(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/login", url.Values{"username": {"admin@x.com"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsole_LoginThenBrowse(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/login", url.Values{
		"username": {"admin@x.com"},
		"password": {"s3cret"},
		"next":     {"/users"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))

	rec = f.do(http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@x.com")

	rec = f.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_users":10`)
	assert.Contains(t, rec.Body.String(), `"email":"admin@x.com"`)

	rec = f.do(http.MethodPost, "/clubs/4/approve", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodPost, "/clubs/abc/approve", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsole_Global401EndsSession(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.fake.usersStatus.Store(http.StatusUnauthorized)
	rec := f.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, session.Anonymous, f.store.State())

	calls := f.fake.usersCalls.Load()
	rec = f.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, calls, f.fake.usersCalls.Load(), "no protected data fetched after the 401")
}

func TestConsole_Logout(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	rec := f.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, session.Anonymous, f.store.State())

	rec = f.do(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestConsole_LoginIssuesStrictCookie(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	c, ok := f.cookies[consoleCookie]
	require.True(t, ok)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	f.do(http.MethodPost, "/logout", nil)
	assert.NotContains(t, f.cookies, consoleCookie)
}

func TestConsole_CrossSiteRequestsAreRejected(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		headers map[string]string
	}{
		{name: "approve from foreign origin", method: http.MethodPost, target: "/clubs/4/approve", headers: map[string]string{"Origin": "https://evil.example"}},
		{name: "approve with foreign referer", method: http.MethodPost, target: "/clubs/4/approve", headers: map[string]string{"Referer": "https://evil.example/page"}},
		{name: "approve with cross-site fetch metadata", method: http.MethodPost, target: "/clubs/4/approve", headers: map[string]string{"Sec-Fetch-Site": "cross-site"}},
		{name: "logout from foreign origin", method: http.MethodPost, target: "/logout", headers: map[string]string{"Origin": "https://evil.example"}},
		{name: "login from foreign origin", method: http.MethodPost, target: "/login", headers: map[string]string{"Origin": "https://evil.example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.login(t)
			meCalls := f.fake.meCalls.Load()

			rec := f.send(tt.method, tt.target, nil, tt.headers)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Zero(t, f.fake.approves.Load())
			assert.Equal(t, meCalls, f.fake.meCalls.Load(), "rejected before the guard revalidates")
			assert.Equal(t, session.Authenticated, f.store.State())
		})
	}
}

func TestConsole_StateChangeRequiresConsoleCookie(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	delete(f.cookies, consoleCookie)

	rec := f.do(http.MethodPost, "/clubs/4/approve", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, f.fake.approves.Load())

	rec = f.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, session.Authenticated, f.store.State())

	f.cookies[consoleCookie] = &http.Cookie{Name: consoleCookie, Value: "forged"}
	rec = f.do(http.MethodPost, "/clubs/4/approve", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, f.fake.approves.Load())

	// reads stay available to a session established elsewhere
	rec = f.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConsole_LoginPageWithoutConsoleCookie(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	rec := f.do(http.MethodGet, "/login?next=%2Fusers", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))

	delete(f.cookies, consoleCookie)
	rec = f.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "a session from elsewhere still gets the form")
}

func TestConsole_SameOriginActionPasses(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	rec := f.send(http.MethodPost, "/clubs/4/approve", nil, map[string]string{
		"Origin":         "http://example.com",
		"Sec-Fetch-Site": "same-origin",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.EqualValues(t, 1, f.fake.approves.Load())
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "/"},
		{in: "/users?page=2", want: "/users?page=2"},
		{in: "//evil.example", want: "/"},
		{in: "https://evil.example", want: "/"},
		{in: "/login", want: "/"},
		{in: "/login?next=/x", want: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeNext(tt.in))
		})
	}
}
