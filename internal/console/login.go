// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "moa/admin/internal/errors"
	"moa/admin/internal/logging"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>MOA Admin - Sign in</title></head>
<body>
<h1>MOA Admin</h1>
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
<form method="post" action="/login">
  <input type="hidden" name="next" value="{{.Next}}">
  <label>Email or username <input name="username" value="{{.Username}}" autocomplete="username" required></label>
  <label>Password <input name="password" type="password" autocomplete="current-password" required></label>
  <button type="submit">Sign in</button>
</form>
</body>
</html>
`))

type loginView struct {
	Error    string
	Next     string
	Username string
}

func (s *Server) renderLogin(w http.ResponseWriter, status int, v loginView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := loginTmpl.Execute(w, v); err != nil {
		s.logger.Error("failed to render login page", zap.Error(err))
	}
}

// loginPage skips the form only for a browser already signed in here; a
// session from the CLI still has to sign in to get the console cookie.
func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	if s.sessions.Snapshot().IsAuthenticated && s.hasToken(r) {
		http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
		return
	}
	s.renderLogin(w, http.StatusOK, loginView{Next: r.URL.Query().Get("next")})
}

func (s *Server) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, http.StatusBadRequest, loginView{Error: "invalid form submission"})
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	next := r.PostForm.Get("next")

	if username == "" || password == "" {
		s.renderLogin(w, http.StatusBadRequest, loginView{Error: "username and password are required", Next: next, Username: username})
		return
	}

	if err := s.sessions.Login(r.Context(), username, password); err != nil {
		s.logger.Info("login failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("username", username),
			logging.Err(err),
		)
		status := http.StatusUnauthorized
		msg := apperrors.Message(err)
		if apperrors.Is(err, apperrors.KindTransport) {
			status = http.StatusBadGateway
			msg = "the MOA API could not be reached"
		}
		s.renderLogin(w, status, loginView{Error: msg, Next: next, Username: username})
		return
	}

	s.logger.Info("admin signed in", zap.String("request_id", RequestID(r.Context())))
	s.issueToken(w)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(); err != nil {
		s.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
	s.revokeToken(w)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// safeNext only allows local absolute paths as post-login targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if next == LoginPath || strings.HasPrefix(next, LoginPath+"?") {
		return "/"
	}
	return next
}
