// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"moa/admin/internal/backend"
	apperrors "moa/admin/internal/errors"
	"moa/admin/internal/guard"
)

func (s *Server) registerViews(r chi.Router) {
	r.Get("/", s.dashboard)
	r.Get("/me", s.me)

	r.Get("/users", s.listUsers)
	r.Post("/users/{id}/ban", s.action(s.api.BanUser))

	r.Get("/clubs", s.listClubs)
	r.Post("/clubs/{id}/approve", s.action(s.api.ApproveClub))
	r.Post("/clubs/{id}/reject", s.action(s.api.RejectClub))

	r.Get("/events", s.listEvents)
	r.Post("/events/{id}/cancel", s.action(s.api.CancelEvent))

	r.Get("/orgs", s.listOrgs)
	r.Get("/orgs/{id}/analytics", s.orgAnalytics)
	r.Post("/orgs/{id}/block", s.action(s.api.BlockOrg))
	r.Delete("/orgs/{id}", s.action(s.api.DeleteOrg))

	r.Get("/avatars", s.listAvatars)
	r.Delete("/avatars/{id}", s.action(s.api.DeleteAvatar))

	r.Get("/badges", s.listBadges)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// fail maps a backend error to a response. A 401 has already ended the
// session through the interceptor, so the browser is sent to login.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var se *backend.StatusError
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	case apperrors.Is(err, apperrors.KindValidation):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case apperrors.Is(err, apperrors.KindTransport):
		s.logger.Warn("MOA API unreachable", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "the MOA API could not be reached")
	case errors.As(err, &se):
		msg := se.Message
		if msg == "" {
			msg = http.StatusText(se.Code)
		}
		s.respondError(w, se.Code, msg)
	default:
		s.logger.Error("request failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func listParams(r *http.Request) backend.ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return backend.ListParams{Page: page, Size: size, Search: q.Get("search"), Status: q.Get("status")}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// action adapts an id-based mutation to a handler answering 204.
func (s *Server) action(fn func(ctx context.Context, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			s.respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if err := fn(r.Context(), id); err != nil {
			s.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.api.Analytics(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"admin":     guard.IdentityFrom(r.Context()),
		"analytics": stats,
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, guard.IdentityFrom(r.Context()))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	page, err := s.api.ListUsers(r.Context(), listParams(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, page)
}

func (s *Server) listClubs(w http.ResponseWriter, r *http.Request) {
	page, err := s.api.ListClubs(r.Context(), listParams(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, page)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	page, err := s.api.ListEvents(r.Context(), listParams(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, page)
}

func (s *Server) listOrgs(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.api.ListOrgs(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, orgs)
}

func (s *Server) orgAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	doc, err := s.api.OrgAnalytics(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) listAvatars(w http.ResponseWriter, r *http.Request) {
	avatars, err := s.api.ListAvatars(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, avatars)
}

func (s *Server) listBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := s.api.ListBadges(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, badges)
}
