// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

func (h *HTTP) ListAvatars(ctx context.Context) ([]Avatar, error) {
	var out []Avatar
	if err := h.getJSON(ctx, "/api/v1/user/avatar/list", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Avatar{}
	}
	return out, nil
}

// CreateAvatar uploads a new avatar image under name.
func (h *HTTP) CreateAvatar(ctx context.Context, name string, image Upload) (*Avatar, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("avatar name is required")
	}
	if image.Content == nil {
		return nil, validationError("avatar image is required")
	}
	parts := []formPart{{Name: "name", Value: name}, {Name: "avatar", File: &image}}
	var out Avatar
	if err := h.sendMultipart(ctx, http.MethodPost, "/api/v1/user/avatar/create", parts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAvatar renames an avatar and/or replaces its image; empty inputs are left unchanged.
func (h *HTTP) UpdateAvatar(ctx context.Context, id int64, name string, image *Upload) (*Avatar, error) {
	parts := []formPart{{Name: "name", Value: strings.TrimSpace(name)}}
	if image != nil {
		parts = append(parts, formPart{Name: "avatar", File: image})
	}
	var out Avatar
	if err := h.sendMultipart(ctx, http.MethodPut, fmt.Sprintf("/api/v1/user/avatar/update/%d", id), parts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTP) DeleteAvatar(ctx context.Context, id int64) error {
	return h.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/user/avatar/delete/%d", id), nil, nil)
}
