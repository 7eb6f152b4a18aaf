// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import "moa/admin/internal/backend"

// State is the position of a session in its lifecycle.
//
//	Anonymous --login--> Pending --validate (admin)--> Authenticated
//	Pending/Authenticated --logout, validate failure, 401--> Anonymous
type State int

const (
	Anonymous State = iota
	Pending
	Authenticated
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Snapshot is the persisted session record. It is always replaced as a whole.
type Snapshot struct {
	Token           string            `json:"token,omitempty"`
	User            *backend.Identity `json:"user,omitempty"`
	IsAuthenticated bool              `json:"isAuthenticated"`
}

// State derives the lifecycle position from the snapshot.
func (s Snapshot) State() State {
	switch {
	case s.Token == "":
		return Anonymous
	case s.IsAuthenticated:
		return Authenticated
	default:
		return Pending
	}
}

// IsZero reports whether the snapshot holds nothing worth persisting.
func (s Snapshot) IsZero() bool {
	return s.Token == "" && s.User == nil && !s.IsAuthenticated
}

func (s Snapshot) clone() Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
