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

// ListEvents returns one page of events. The endpoint is offset based, so the
// page is translated to offset/limit and the response is normalized: a missing
// total falls back to the item count and a missing page count to 1.
func (h *HTTP) ListEvents(ctx context.Context, p ListParams) (*Page[Event], error) {
	p = p.normalized()
	q := url.Values{}
	q.Set("offset", strconv.Itoa((p.Page-1)*p.Size))
	q.Set("limit", strconv.Itoa(p.Size))
	q.Set("search", p.Search)

	var raw Page[Event]
	if err := h.getJSON(ctx, "/api/v1/events/admin/list", q, &raw); err != nil {
		return nil, err
	}

	out := &Page[Event]{
		Items: raw.Items,
		Total: raw.Total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: raw.Pages,
	}
	if out.Items == nil {
		out.Items = []Event{}
	}
	if out.Total == 0 {
		out.Total = len(out.Items)
	}
	if out.Pages == 0 {
		out.Pages = 1
	}
	return out, nil
}

// CancelEvent cancels a published event.
func (h *HTTP) CancelEvent(ctx context.Context, id int64) error {
	return h.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/events/%d/cancel", id), nil, nil)
}
