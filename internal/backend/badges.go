// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"fmt"
	"net/http"
)

const badgesPath = "/api/v1/badges/admin"

// ListBadges returns every badge with its claim count.
func (h *HTTP) ListBadges(ctx context.Context) ([]Badge, error) {
	var out []Badge
	if err := h.getJSON(ctx, badgesPath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Badge{}
	}
	return out, nil
}

// CreateBadge validates in locally before sending it.
func (h *HTTP) CreateBadge(ctx context.Context, in BadgeCreate) (*Badge, error) {
	if err := h.checkInput(in); err != nil {
		return nil, err
	}
	var out Badge
	if err := h.sendJSON(ctx, http.MethodPost, badgesPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTP) UpdateBadge(ctx context.Context, id int64, in BadgeUpdate) (*Badge, error) {
	if err := h.checkInput(in); err != nil {
		return nil, err
	}
	var out Badge
	if err := h.sendJSON(ctx, http.MethodPut, fmt.Sprintf("%s/%d", badgesPath, id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
