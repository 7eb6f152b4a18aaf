// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
)

// formPart is one multipart field; File is set for file parts.
type formPart struct {
	Name  string
	Value string
	File  *Upload
}

// sendMultipart encodes parts as multipart/form-data and decodes the JSON response.
// Empty values are skipped, matching how the API treats absent fields.
func (h *HTTP) sendMultipart(ctx context.Context, method, path string, parts []formPart, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		switch {
		case p.File != nil:
			fw, err := w.CreateFormFile(p.Name, p.File.Filename)
			if err != nil {
				return err
			}
			if p.File.Content != nil {
				if _, err := io.Copy(fw, p.File.Content); err != nil {
					return err
				}
			}
		case p.Value != "":
			if err := w.WriteField(p.Name, p.Value); err != nil {
				return err
			}
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := h.newRequest(ctx, method, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return h.do(req, out)
}
