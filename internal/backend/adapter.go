// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the MOA REST API.
// It defines the API contract for authentication and for the admin collaborators
// (users, clubs, events, organizations, avatars, badges, analytics).
//
// Every request goes through the same *http.Client, whose Transport is the
// authorization interceptor from transport.go: the bearer credential is attached
// there and 401 responses are reported there, never at the call sites.
package backend

import "context"

// IdentityAPI is the part of the backend the session store depends on.
type IdentityAPI interface {
	// IssueToken exchanges credentials for an access token using a
	// form-encoded submission. An empty token with a nil error means the
	// server answered 2xx without an access_token.
	IssueToken(ctx context.Context, username, password string) (string, error)
	// Me returns the identity behind the bearer credential currently attached
	// by the interceptor.
	Me(ctx context.Context) (*Identity, error)
}

// AdminAPI defines the admin collaborator operations the CLI and console depend on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type AdminAPI interface {
	Analytics(ctx context.Context) (*Analytics, error)

	ListUsers(ctx context.Context, p ListParams) (*Page[User], error)
	BanUser(ctx context.Context, id int64) error

	ListClubs(ctx context.Context, p ListParams) (*Page[Club], error)
	ApproveClub(ctx context.Context, id int64) error
	RejectClub(ctx context.Context, id int64) error

	ListEvents(ctx context.Context, p ListParams) (*Page[Event], error)
	CancelEvent(ctx context.Context, id int64) error

	ListOrgs(ctx context.Context) ([]Organization, error)
	CreateOrg(ctx context.Context, in OrgInput) (*Organization, error)
	UpdateOrg(ctx context.Context, id int64, in OrgInput) (*Organization, error)
	DeleteOrg(ctx context.Context, id int64) error
	BlockOrg(ctx context.Context, id int64) error
	ImportOrgs(ctx context.Context, file Upload) (map[string]any, error)
	OrgAnalytics(ctx context.Context, id int64) (map[string]any, error)

	ListAvatars(ctx context.Context) ([]Avatar, error)
	CreateAvatar(ctx context.Context, name string, image Upload) (*Avatar, error)
	UpdateAvatar(ctx context.Context, id int64, name string, image *Upload) (*Avatar, error)
	DeleteAvatar(ctx context.Context, id int64) error

	ListBadges(ctx context.Context) ([]Badge, error)
	CreateBadge(ctx context.Context, in BadgeCreate) (*Badge, error)
	UpdateBadge(ctx context.Context, id int64, in BadgeUpdate) (*Badge, error)
}

var (
	_ IdentityAPI = (*HTTP)(nil)
	_ AdminAPI    = (*HTTP)(nil)
)
