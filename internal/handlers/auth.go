// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"sitecms/internal/middleware"
	"sitecms/internal/models"
	"sitecms/internal/session"
)

// UserLookup finds admin accounts and checks their passwords.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// Auth groups the login endpoints of the admin API.
type Auth struct {
	sessions *session.Store
	users    UserLookup
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users UserLookup) *Auth {
	return &Auth{sessions: sessions, users: users}
}

// Login handles POST /admin/api/login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "login unavailable, try again")
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		slog.Info("login rejected", "email", req.Email)
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	data := &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	}
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "login unavailable, try again")
		return
	}

	slog.Info("user logged in", "email", user.Email)
	writeJSON(w, http.StatusOK, data)
}

// Logout handles POST /admin/api/logout.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /admin/api/me and returns the current session.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
