// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard gates protected commands and pages on a validated admin session.
//
// Every protected entry runs one check: Checking, then Authorized or
// Unauthorized. With a token present the session is revalidated first; without
// one the check decides immediately and never calls the identity endpoint.
// Validation errors are recorded on the decision but never fail the check:
// the session has already cleared itself by the time they surface.
package guard

import (
	"context"

	"go.uber.org/zap"

	"moa/admin/internal/backend"
)

// State is the guard's position for a single protected entry.
type State int

const (
	Checking State = iota
	Authorized
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "checking"
	}
}

// Session is the read side of the session store plus its validate operation.
type Session interface {
	Token() string
	Validate(ctx context.Context) error
	IsAuthenticated() bool
	User() *backend.Identity
}

// Indicator is shown while a check is in flight. It must not render protected content.
type Indicator interface {
	Start()
	Stop()
}

// Decision is the outcome of a check.
type Decision struct {
	State State
	User  *backend.Identity
	// Err is the validation error, if one occurred. Informational only.
	Err error
}

// Allowed reports whether protected content may be served.
func (d Decision) Allowed() bool { return d.State == Authorized }

// Guard decides access for protected entries.
type Guard struct {
	session   Session
	log       *zap.Logger
	indicator Indicator
}

// Option configures a Guard.
type Option func(*Guard)

// WithIndicator shows ind while a validation is in flight.
func WithIndicator(ind Indicator) Option {
	return func(g *Guard) { g.indicator = ind }
}

// WithLogger sets the logger used for swallowed validation errors.
func WithLogger(log *zap.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// New creates a guard over session.
func New(session Session, opts ...Option) *Guard {
	g := &Guard{session: session, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.Named("guard")
	return g
}

// Check runs one Checking cycle and returns the terminal decision.
func (g *Guard) Check(ctx context.Context) Decision {
	var d Decision
	if g.session.Token() != "" {
		if g.indicator != nil {
			g.indicator.Start()
		}
		d.Err = g.session.Validate(ctx)
		if g.indicator != nil {
			g.indicator.Stop()
		}
		if d.Err != nil {
			g.log.Debug("session validation failed", zap.Error(d.Err))
		}
	}

	if g.session.IsAuthenticated() {
		d.State = Authorized
		d.User = g.session.User()
	} else {
		d.State = Unauthorized
	}
	g.log.Debug("access decided", zap.Stringer("state", d.State))
	return d
}
