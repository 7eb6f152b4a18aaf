// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"fmt"
	"net/http"
)

// ListClubs returns one page of clubs, optionally filtered by moderation status.
func (h *HTTP) ListClubs(ctx context.Context, p ListParams) (*Page[Club], error) {
	var out Page[Club]
	if err := h.getJSON(ctx, "/api/v1/clubs", pageQuery(p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveClub marks a pending club as approved.
func (h *HTTP) ApproveClub(ctx context.Context, id int64) error {
	return h.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/approve", id), nil, nil)
}

// RejectClub marks a pending club as rejected.
func (h *HTTP) RejectClub(ctx context.Context, id int64) error {
	return h.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/reject", id), nil, nil)
}
