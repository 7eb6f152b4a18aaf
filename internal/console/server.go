// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package console serves the local admin web console: a login form and guarded
// JSON views over the same session, guard and backend the CLI uses.
//
// Every route except /login sits behind the guard middleware; an unknown path
// is redirected to the root, which is itself guarded, so an anonymous visitor
// always ends up on the login page. State-changing requests must come from the
// console's own origin and, past /login, carry the cookie issued on sign-in.
package console

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"moa/admin/internal/backend"
	"moa/admin/internal/guard"
	"moa/admin/internal/session"
)

// LoginPath is where unauthorized requests are sent.
const LoginPath = "/login"

// Sessions is what the console needs from the session store.
type Sessions interface {
	Login(ctx context.Context, identifier, secret string) error
	Logout() error
	Snapshot() session.Snapshot
}

// Server is the console HTTP application.
type Server struct {
	sessions Sessions
	guard    *guard.Guard
	api      backend.AdminAPI
	logger   *zap.Logger
	// loginRate is the number of login attempts allowed per IP per minute.
	loginRate int
	// token is minted per process and handed out as a cookie on sign-in.
	token string
}

// New creates a console server.
func New(sessions Sessions, g *guard.Guard, api backend.AdminAPI, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		sessions:  sessions,
		guard:     g,
		api:       api,
		logger:    logger.Named("console"),
		loginRate: 10,
		token:     uuid.NewString(),
	}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggerMiddleware(s.logger))
	r.Use(recoveryMiddleware(s.logger))
	r.Use(s.originMiddleware)

	r.Get(LoginPath, s.loginPage)
	r.With(httprate.LimitByIP(s.loginRate, time.Minute)).Post(LoginPath, s.loginSubmit)
	r.With(s.tokenMiddleware).Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.tokenMiddleware)
		r.Use(s.guard.Middleware(LoginPath))
		s.registerViews(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	return r
}

// Run serves the console on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("console listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down console")
		return srv.Shutdown(shutdownCtx)
	}
}
