// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// pageQuery encodes page/size/search (and status when set) for list endpoints.
func pageQuery(p ListParams) url.Values {
	p = p.normalized()
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	q.Set("search", p.Search)
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	return q
}

// ListUsers returns one page of platform members.
func (h *HTTP) ListUsers(ctx context.Context, p ListParams) (*Page[User], error) {
	p.Status = ""
	var out Page[User]
	if err := h.getJSON(ctx, "/api/v1/users", pageQuery(p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BanUser bans the member with the given id.
func (h *HTTP) BanUser(ctx context.Context, id int64) error {
	return h.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/ban", id), nil, nil)
}
