// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const (
	tokenPath = "/api/v1/auth/token"
	mePath    = "/api/v1/auth/me"
)

// IssueToken posts the credentials as an OAuth2 password form to /api/v1/auth/token.
// Non-2xx responses come back as *StatusError; an empty token with a nil error
// means the server answered without an access token.
func (h *HTTP) IssueToken(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := h.newRequest(ctx, http.MethodPost, tokenPath, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var raw map[string]any
	if err := h.do(req, &raw); err != nil {
		return "", err
	}
	return extractAccessToken(raw), nil
}

// extractAccessToken reads the bearer from the token response.
// It accepts a few spellings and an "Authorization: Bearer" style value.
func extractAccessToken(raw map[string]any) string {
	for _, key := range []string{"access_token", "accessToken", "token"} {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if v, ok := raw["authorization"].(string); ok {
		return parseBearerToken(v)
	}
	return ""
}

// Me fetches the identity behind the bearer currently attached by the interceptor.
func (h *HTTP) Me(ctx context.Context) (*Identity, error) {
	req, err := h.newRequest(ctx, http.MethodGet, mePath, nil, nil)
	if err != nil {
		return nil, err
	}

	var body json.RawMessage
	if err := h.do(req, &body); err != nil {
		return nil, err
	}
	return decodeIdentity(body)
}

// decodeIdentity tolerates an empty body; an empty identity is never an admin.
func decodeIdentity(body []byte) (*Identity, error) {
	var id Identity
	if len(body) == 0 {
		return &id, nil
	}
	if err := json.Unmarshal(body, &id); err != nil {
		return nil, err
	}
	return &id, nil
}
