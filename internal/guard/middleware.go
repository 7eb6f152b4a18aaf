// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package guard

import (
	"context"
	"net/http"
	"net/url"

	"moa/admin/internal/backend"
)

type ctxKey struct{}

// Middleware runs a check for every request. Unauthorized requests get a
// 303 See Other to loginPath, so the protected URL never stays in history
// as a rendered page. The original path is passed as ?next=.
func (g *Guard) Middleware(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Check(r.Context())
			if !d.Allowed() {
				target := loginPath
				if r.Method == http.MethodGet && r.URL.Path != "/" {
					target += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, d.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity the guard authorized for this request.
func IdentityFrom(ctx context.Context) *backend.Identity {
	id, _ := ctx.Value(ctxKey{}).(*backend.Identity)
	return id
}
