// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the admin session: the bearer token, the validated
// identity and the authenticated flag. It is the only writer of that state.
// Every transition replaces the whole snapshot and persists it before the
// lock is released, so readers and the durable record never see a half-set
// session.
//
// The store is an explicit value: the CLI, the console and the HTTP
// interceptor all receive the same *Store instead of reaching for a global.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"moa/admin/internal/backend"
	apperrors "moa/admin/internal/errors"
)

// User-facing messages of the authentication errors.
const (
	MsgInvalidLoginResponse = "invalid login response"
	MsgNotAdmin             = "unauthorized: lacks administrative privileges"
	MsgInvalidCredentials   = "invalid credentials"
)

var (
	// ErrInvalidLoginResponse is returned when the token endpoint answers 2xx without a token.
	ErrInvalidLoginResponse = apperrors.Auth(MsgInvalidLoginResponse)
	// ErrNotAdmin is returned when the validated identity is not an administrator.
	ErrNotAdmin = apperrors.Auth(MsgNotAdmin)
)

// Store is the single authority for the credential lifecycle.
type Store struct {
	api     backend.IdentityAPI
	storage Storage
	log     *zap.Logger

	mu   sync.RWMutex
	snap Snapshot

	lmu       sync.Mutex
	listeners []func(Snapshot)
}

// New creates an empty (Anonymous) store. Call Load to rehydrate persisted state.
func New(api backend.IdentityAPI, storage Storage, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{api: api, storage: storage, log: log.Named("session")}
}

// Load rehydrates the persisted record. A persisted token resumes in Pending,
// and the record is rewritten without the authenticated flag until Validate
// confirms it. An unreadable record is discarded and the store stays Anonymous.
func (s *Store) Load() error {
	snap, err := s.read()
	if err != nil {
		s.log.Warn("discarding persisted session", zap.Error(err))
		_ = s.commit(Snapshot{})
		return err
	}
	if snap.Token == "" {
		snap = Snapshot{}
	}
	snap.IsAuthenticated = false

	if err := s.commit(snap); err != nil {
		return err
	}
	s.log.Debug("session rehydrated", zap.String("state", snap.State().String()))
	return nil
}

// Login exchanges credentials for a token, stores it (Pending) and validates it.
// The validation error, if any, is returned unchanged.
func (s *Store) Login(ctx context.Context, identifier, secret string) error {
	token, err := s.api.IssueToken(ctx, identifier, secret)
	if err != nil {
		return loginError(err)
	}
	if token == "" {
		return ErrInvalidLoginResponse
	}

	if err := s.commit(Snapshot{Token: token}); err != nil {
		return err
	}
	s.log.Debug("token issued, validating identity")
	return s.Validate(ctx)
}

// loginError maps a failed token request to an AuthError carrying the
// server's message, or passes transport failures through.
func loginError(err error) error {
	if apperrors.Is(err, apperrors.KindTransport) {
		return err
	}
	var se *backend.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = MsgInvalidCredentials
		}
		return apperrors.Auth(msg)
	}
	return apperrors.Wrap(apperrors.KindAuth, MsgInvalidLoginResponse, err)
}

// Logout clears token, identity and flag unconditionally. Safe to repeat.
func (s *Store) Logout() error {
	return s.commit(Snapshot{})
}

// Validate confirms the held token against the identity endpoint.
// Without a token it clears the store and returns nil. A non-admin identity
// or any request failure logs out and returns the error. Results for a token
// that was replaced while the request was in flight are dropped.
func (s *Store) Validate(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return s.commit(Snapshot{})
	}

	id, err := s.api.Me(ctx)
	if err != nil {
		s.log.Debug("validation failed", zap.Error(err))
		s.clearIfCurrent(token)
		return err
	}
	if !id.IsAdmin() {
		s.log.Debug("identity is not an administrator",
			zap.String("user_type", id.UserType),
			zap.String("role", id.Role),
		)
		s.clearIfCurrent(token)
		return ErrNotAdmin
	}

	return s.commitIf(token, Snapshot{Token: token, User: id, IsAuthenticated: true})
}

// HandleUnauthorized is the interceptor subscriber: a 401 for the held token
// ends the session. A 401 for a request without a credential, or for a token
// that has since been replaced, leaves the store alone.
func (s *Store) HandleUnauthorized(ev backend.UnauthorizedEvent) {
	if ev.Token == "" || ev.Token != s.Token() {
		return
	}
	s.log.Debug("api rejected credential, logging out",
		zap.String("method", ev.Method),
		zap.String("path", ev.Path),
	)
	s.clearIfCurrent(ev.Token)
}

func (s *Store) clearIfCurrent(token string) {
	if err := s.commitIf(token, Snapshot{}); err != nil {
		s.log.Warn("failed to clear persisted session", zap.Error(err))
	}
}

// commit replaces the snapshot and persists it under the write lock.
// If a non-empty snapshot cannot be persisted the store is cleared instead.
func (s *Store) commit(next Snapshot) error {
	s.mu.Lock()
	next, err := s.apply(next)
	s.mu.Unlock()
	s.notify(next)
	return err
}

// commitIf is commit guarded by the token the caller started from.
func (s *Store) commitIf(token string, next Snapshot) error {
	s.mu.Lock()
	if s.snap.Token != token {
		s.mu.Unlock()
		s.log.Debug("session changed during validation, dropping result")
		return nil
	}
	next, err := s.apply(next)
	s.mu.Unlock()
	s.notify(next)
	return err
}

// apply must be called with mu held.
func (s *Store) apply(next Snapshot) (Snapshot, error) {
	if err := s.save(next); err != nil {
		if !next.IsZero() {
			_ = s.save(Snapshot{})
			next = Snapshot{}
		}
		s.snap = next
		return next, err
	}
	s.snap = next
	return next, nil
}

// OnChange registers fn to receive every committed snapshot.
// fn runs outside the store lock and may call read methods.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.lmu.Lock()
	s.listeners = append(s.listeners, fn)
	s.lmu.Unlock()
}

func (s *Store) notify(snap Snapshot) {
	s.lmu.Lock()
	ls := append([]func(Snapshot){}, s.listeners...)
	s.lmu.Unlock()
	for _, fn := range ls {
		fn(snap.clone())
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Token implements backend.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token
}

// State reports Anonymous, Pending or Authenticated.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.State()
}

// IsAuthenticated is true only after the held token was validated as an admin.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.IsAuthenticated
}

// User returns a copy of the validated identity, or nil.
func (s *Store) User() *backend.Identity {
	return s.Snapshot().User
}
