// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"io"
)

// RoleAdmin is the only role the admin client accepts.
const RoleAdmin = "admin"

// Identity is the authenticated account returned by /api/v1/auth/me.
// The backend reports the role under either user_type or role.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	UserType string `json:"user_type,omitempty"`
	Role     string `json:"role,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// IsAdmin reports whether either role field names the admin role.
func (i *Identity) IsAdmin() bool {
	if i == nil {
		return false
	}
	return i.UserType == RoleAdmin || i.Role == RoleAdmin
}

// DisplayName picks the most human identifier available.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	switch {
	case i.FullName != "" && i.Email != "":
		return i.FullName + " <" + i.Email + ">"
	case i.Email != "":
		return i.Email
	case i.Username != "":
		return i.Username
	case i.FullName != "":
		return i.FullName
	}
	return "admin"
}

// ListParams are the query parameters shared by paginated list endpoints.
type ListParams struct {
	Page   int
	Size   int
	Search string
	Status string
}

func (p ListParams) normalized() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = 50
	}
	return p
}

// Page is a paginated list response.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// User is a platform member as listed by the admin users endpoint.
type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	AuthProvider   string `json:"auth_provider"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// Club is a community club awaiting or past moderation.
type Club struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     int64  `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	IsVerified  *bool  `json:"is_verified,omitempty"`
	Status      string `json:"status,omitempty"`
}

// EventClub is the club summary embedded in an event.
type EventClub struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Interest tags an event.
type Interest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Event is a club event.
type Event struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	EventDatetime string     `json:"event_datetime"`
	LocationName  string     `json:"location_name"`
	Status        string     `json:"status"`
	Club          EventClub  `json:"club"`
	Interests     []Interest `json:"interests,omitempty"`
}

// FileRef is an uploaded file as echoed back by the API.
type FileRef struct {
	Filename string          `json:"filename"`
	Bytes    json.RawMessage `json:"bytes,omitempty"`
}

// Organization is a partner organization.
type Organization struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Address    string   `json:"address,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	Website    string   `json:"website,omitempty"`
	Logo       *FileRef `json:"logo,omitempty"`
	IsVerified *bool    `json:"is_verified,omitempty"`
	IsBlocked  *bool    `json:"is_blocked,omitempty"`
}

// OrgInput is the multipart payload for creating or updating an organization.
// Empty fields are not sent.
type OrgInput struct {
	Name    string  `validate:"omitempty,max=200"`
	Type    string  `validate:"omitempty,max=100"`
	Address string  `validate:"omitempty,max=500"`
	Phone   string  `validate:"omitempty,max=50"`
	Email   string  `validate:"omitempty,email"`
	Website string  `validate:"omitempty,url"`
	Logo    *Upload `validate:"-"`
}

// Avatar is a selectable profile avatar.
type Avatar struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Image *FileRef `json:"image,omitempty"`
}

// Badge is an achievement badge as seen by admins.
type Badge struct {
	ID            int64  `json:"id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Emoji         string `json:"emoji"`
	BadgeType     string `json:"badge_type"`
	TriggerMetric string `json:"trigger_metric"`
	Threshold     int    `json:"threshold"`
	ClaimedCount  int    `json:"claimed_count"`
}

// BadgeCreate is the JSON payload for a new badge.
type BadgeCreate struct {
	Slug          string `json:"slug" validate:"required,max=64"`
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description" validate:"required"`
	Emoji         string `json:"emoji" validate:"required"`
	BadgeType     string `json:"badge_type" validate:"required,oneof=user club"`
	TriggerMetric string `json:"trigger_metric" validate:"required"`
	Threshold     int    `json:"threshold" validate:"gte=0"`
}

// BadgeUpdate is the JSON payload for a badge update. Nil fields are left unchanged.
type BadgeUpdate struct {
	Slug          *string `json:"slug,omitempty" validate:"omitempty,max=64"`
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Emoji         *string `json:"emoji,omitempty"`
	TriggerMetric *string `json:"trigger_metric,omitempty"`
	Threshold     *int    `json:"threshold,omitempty" validate:"omitempty,gte=0"`
}

// Analytics holds the platform totals shown on the dashboard.
type Analytics struct {
	TotalUsers      int64   `json:"total_users"`
	VerifiedClubs   int64   `json:"verified_clubs"`
	EventsHosted    int64   `json:"events_hosted"`
	PlatformRevenue float64 `json:"platform_revenue"`
}

// Upload is a file to send in a multipart form.
type Upload struct {
	Filename string
	Content  io.Reader
}
