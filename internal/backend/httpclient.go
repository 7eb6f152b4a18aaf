// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "moa/admin/internal/errors"
)

// ErrUnauthorized matches any 401 returned by the API via errors.Is.
var ErrUnauthorized = apperrors.New(apperrors.KindUnauthorized, "")

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// HTTP implements IdentityAPI and AdminAPI over the MOA REST endpoints.
type HTTP struct {
	// baseURL is the API origin, e.g. "https://api.myotherapp.com"
	baseURL string
	// client must carry the interceptor Transport for authenticated calls
	client   *http.Client
	validate *validator.Validate
}

// New creates a backend client for baseURL using client for every request.
// Pass the client from NewClient so the interceptor is in place.
func New(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTP{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		validate: validator.New(),
	}
}

// NewClient builds the shared *http.Client with the authorization interceptor installed.
func NewClient(tokens TokenSource, onUnauthorized UnauthorizedFunc, userAgent string, timeout time.Duration) *http.Client {
	t := NewTransport(nil, tokens, onUnauthorized)
	t.UserAgent = userAgent
	return &http.Client{Transport: t, Timeout: timeout}
}

// BaseURL returns the API origin this client talks to.
func (h *HTTP) BaseURL() string { return h.baseURL }

// StatusError is a non-2xx API response.
type StatusError struct {
	Code    int
	Method  string
	Path    string
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, msg)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// ErrorMessage extracts the human-readable message from an error body.
// It checks detail.message, then detail as a string, then the first
// entry of a detail list (validation errors). Returns "" when none is present.
func ErrorMessage(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Detail, &nested); err == nil && strings.TrimSpace(nested.Message) != "" {
		return strings.TrimSpace(nested.Message)
	}

	var plain string
	if err := json.Unmarshal(payload.Detail, &plain); err == nil {
		return strings.TrimSpace(plain)
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0].Msg)
	}
	return ""
}

// newRequest builds a request against baseURL+path with optional query values.
func (h *HTTP) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := h.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, u, body)
}

// do sends req and decodes a 2xx JSON body into out (when non-nil).
// Network failures come back as transport errors; non-2xx as *StatusError.
func (h *HTTP) do(req *http.Request, out any) error {
	resp, err := h.client.Do(req)
	if err != nil {
		return apperrors.Transport(fmt.Sprintf("%s %s", req.Method, req.URL.Path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Code:    resp.StatusCode,
			Method:  req.Method,
			Path:    req.URL.Path,
			Message: ErrorMessage(b),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// getJSON performs a GET and decodes the response.
func (h *HTTP) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := h.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return h.do(req, out)
}

// sendJSON performs method with a JSON body (nil for none) and decodes the response.
func (h *HTTP) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := h.newRequest(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.do(req, out)
}

// checkInput runs struct validation and maps failures to validation errors.
func (h *HTTP) checkInput(in any) error {
	if err := h.validate.Struct(in); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "invalid input", err)
	}
	return nil
}

func validationError(msg string) error {
	return apperrors.New(apperrors.KindValidation, msg)
}
