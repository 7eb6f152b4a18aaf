// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import "context"

// Analytics fetches the platform totals shown on the dashboard.
func (h *HTTP) Analytics(ctx context.Context) (*Analytics, error) {
	var out Analytics
	if err := h.getJSON(ctx, "/api/v1/admin/analytics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
