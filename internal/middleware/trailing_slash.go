// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// StripTrailingSlash redirects page URLs with trailing slashes to their
// canonical form (HTTP 301). The root path and API routes are left alone:
// a redirect would turn an API POST into a GET.
func StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" || !strings.HasSuffix(path, "/") || isAPIRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		// Collapsing leading slashes keeps "//host/" from becoming a
		// protocol-relative redirect.
		target := "/" + strings.Trim(path, "/")
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}
