// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"

	"github.com/brightpixel/agencyweb/internal/model"
)

// CSRFConfig holds configuration for CSRF protection. filippo.io/csrf
// checks Fetch metadata and Origin headers, so the admin API needs no
// token round trip.
type CSRFConfig struct {
	// AuthKey is a 32-byte key, derived from the session secret.
	AuthKey []byte

	// TrustedOrigins are host[:port] values allowed to make cross-origin
	// requests, such as a separately hosted admin frontend.
	TrustedOrigins []string

	Logger *slog.Logger
}

// DefaultCSRFConfig returns the CSRF config. In development the local dev
// server origins are trusted.
func DefaultCSRFConfig(authKey []byte, isDev bool, logger *slog.Logger) CSRFConfig {
	cfg := CSRFConfig{AuthKey: authKey, Logger: logger}
	if isDev {
		cfg.TrustedOrigins = []string{
			"localhost:8080",
			"127.0.0.1:8080",
			"localhost:5173",
		}
	}
	return cfg
}

// CSRF returns a middleware rejecting cross-site state-changing requests
// with a 403 JSON error.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := []csrf.Option{
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reason := "unknown"
			if err := csrf.FailureReason(r); err != nil {
				reason = err.Error()
			}
			logger.WarnContext(r.Context(), "CSRF validation failed",
				"category", model.EventCategorySecurity,
				"reason", reason,
				"method", r.Method,
				"path", r.URL.Path,
				"origin", r.Header.Get("Origin"),
				"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
			)
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Cross-site request rejected", nil)
		})),
	}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}
	return csrf.Protect(cfg.AuthKey, opts...)
}
