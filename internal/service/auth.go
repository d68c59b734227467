// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/brightpixel/agencyweb/internal/auth"
	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/util"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService verifies admin credentials.
type AuthService struct {
	st     *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(st *store.Store, logger *slog.Logger) *AuthService {
	return &AuthService{st: st, logger: logger, now: time.Now}
}

// Login checks email and password and records the login time.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email, ok := util.NormalizeEmail(email)
	if !ok || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.st.Users.GetByKey(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	match, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored password hash is unreadable", "category", model.EventCategoryAuth, "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	user.LastLoginAt = &now
	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			user.PasswordHash = hash
		}
	}
	if err := s.st.Users.Update(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to record login", "category", model.EventCategoryAuth, "user_id", user.ID, "error", err)
	}
	return user, nil
}

// User returns a user by id.
func (s *AuthService) User(ctx context.Context, id string) (*model.User, error) {
	return s.st.Users.Get(ctx, id)
}
