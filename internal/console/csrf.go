// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// consoleCookie carries the per-server token issued on a successful sign-in.
const consoleCookie = "moa_console"

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// sameOrigin reports whether a browser request came from a console page.
// Requests without any fetch metadata (curl, scripts) pass; the console
// token still gates them on protected routes.
func sameOrigin(r *http.Request) bool {
	if site := r.Header.Get("Sec-Fetch-Site"); site != "" && site != "same-origin" {
		return false
	}
	src := r.Header.Get("Origin")
	if src == "" {
		src = r.Referer()
	}
	if src == "" {
		return true
	}
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Host == r.Host
}

// originMiddleware rejects state-changing requests from other sites.
func (s *Server) originMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isSafeMethod(r.Method) && !sameOrigin(r) {
			s.logger.Warn("cross-site request rejected",
				zap.String("request_id", RequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("origin", r.Header.Get("Origin")),
			)
			s.respondError(w, http.StatusForbidden, "cross-site request rejected")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// tokenMiddleware requires the console cookie on state-changing requests.
func (s *Server) tokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isSafeMethod(r.Method) && !s.hasToken(r) {
			s.respondError(w, http.StatusForbidden, "missing or invalid console token, sign in on this console")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) hasToken(r *http.Request) bool {
	c, err := r.Cookie(consoleCookie)
	if err != nil || c.Value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(s.token)) == 1
}

func (s *Server) issueToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     consoleCookie,
		Value:    s.token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) revokeToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     consoleCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
