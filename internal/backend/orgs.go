// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"fmt"
	"net/http"
)

// ListOrgs returns every partner organization.
func (h *HTTP) ListOrgs(ctx context.Context) ([]Organization, error) {
	var out []Organization
	if err := h.getJSON(ctx, "/api/v1/orgs/list", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Organization{}
	}
	return out, nil
}

func (in OrgInput) parts() []formPart {
	parts := []formPart{
		{Name: "name", Value: in.Name},
		{Name: "type", Value: in.Type},
		{Name: "address", Value: in.Address},
		{Name: "phone", Value: in.Phone},
		{Name: "email", Value: in.Email},
		{Name: "website", Value: in.Website},
	}
	if in.Logo != nil {
		parts = append(parts, formPart{Name: "logo", File: in.Logo})
	}
	return parts
}

// CreateOrg creates an organization. Name and type are required on create.
func (h *HTTP) CreateOrg(ctx context.Context, in OrgInput) (*Organization, error) {
	if err := h.checkInput(in); err != nil {
		return nil, err
	}
	if in.Name == "" || in.Type == "" {
		return nil, validationError("organization name and type are required")
	}
	var out Organization
	if err := h.sendMultipart(ctx, http.MethodPost, "/api/v1/orgs/create", in.parts(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrg sends only the non-empty fields of in.
func (h *HTTP) UpdateOrg(ctx context.Context, id int64, in OrgInput) (*Organization, error) {
	if err := h.checkInput(in); err != nil {
		return nil, err
	}
	var out Organization
	if err := h.sendMultipart(ctx, http.MethodPut, fmt.Sprintf("/api/v1/orgs/update/%d", id), in.parts(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTP) DeleteOrg(ctx context.Context, id int64) error {
	return h.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/orgs/delete/%d", id), nil, nil)
}

func (h *HTTP) BlockOrg(ctx context.Context, id int64) error {
	return h.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/orgs/block/%d", id), nil, nil)
}

// ImportOrgs uploads a spreadsheet of organizations. The import summary
// shape is owned by the API, so it is returned as a generic map.
func (h *HTTP) ImportOrgs(ctx context.Context, file Upload) (map[string]any, error) {
	out := map[string]any{}
	if err := h.sendMultipart(ctx, http.MethodPost, "/api/v1/orgs/import", []formPart{{Name: "file", File: &file}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrgAnalytics returns the per-organization analytics document.
func (h *HTTP) OrgAnalytics(ctx context.Context, id int64) (map[string]any, error) {
	out := map[string]any{}
	if err := h.getJSON(ctx, fmt.Sprintf("/api/v1/orgs/admin/%d/analytics", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
