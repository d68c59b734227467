// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/brightpixel/agencyweb/internal/middleware"
	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/service"
	"github.com/brightpixel/agencyweb/internal/session"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. Repeated failures lock the account
// for a growing period.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "User", err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		WriteBadRequest(w, "Validation failed", map[string]string{"credentials": "email and password are required"})
		return
	}

	ctx := r.Context()
	if locked, remaining := h.LoginProtection.IsAccountLocked(email); locked {
		h.Logger.WarnContext(ctx, "login attempt on locked account", "category", model.EventCategoryAuth, "email", email, "ip", middleware.ClientIP(r))
		writeLocked(w, remaining.Minutes())
		return
	}

	user, err := h.Auth.Login(ctx, email, in.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		locked, lockFor := h.LoginProtection.RecordFailedAttempt(email)
		h.Logger.WarnContext(ctx, "failed login attempt", "category", model.EventCategoryAuth, "email", email, "ip", middleware.ClientIP(r))
		if locked {
			writeLocked(w, lockFor.Minutes())
			return
		}
		WriteUnauthorized(w, "Invalid email or password")
		return
	}
	if err != nil {
		h.writeServiceError(w, r, "User", err)
		return
	}

	h.LoginProtection.RecordSuccessfulLogin(email)
	if err := session.SignIn(ctx, h.Sessions, user.ID); err != nil {
		h.writeServiceError(w, r, "User", err)
		return
	}
	h.Logger.InfoContext(ctx, "user logged in", "category", model.EventCategoryAuth, "user_id", user.ID, "ip", middleware.ClientIP(r))
	WriteSuccess(w, user.Public(), nil)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := session.UserID(ctx, h.Sessions)
	if err := session.SignOut(ctx, h.Sessions); err != nil {
		h.writeServiceError(w, r, "User", err)
		return
	}
	if userID != "" {
		h.Logger.InfoContext(ctx, "user logged out", "category", model.EventCategoryAuth, "user_id", userID)
	}
	WriteSuccess(w, map[string]bool{"loggedOut": true}, nil)
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	WriteSuccess(w, user.Public(), nil)
}

func writeLocked(w http.ResponseWriter, minutes float64) {
	WriteError(w, http.StatusTooManyRequests, "account_locked",
		fmt.Sprintf("Account temporarily locked. Try again in %d minutes.", int(math.Ceil(minutes))), nil)
}
