// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blob stores uploaded files and returns their public URLs. Files
// live either on the local disk, served under /uploads/, or in a Google
// Cloud Storage bucket.
package blob

import (
	"context"
	"io"
	"path"
	"strings"
)

// Bucket is a flat object store addressed by slash separated keys.
type Bucket interface {
	// Put writes r under key and returns the public URL of the object.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Key builds an object key under the media prefix.
func Key(parts ...string) string {
	clean := make([]string, 0, len(parts)+1)
	clean = append(clean, "media")
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			clean = append(clean, p)
		}
	}
	return path.Join(clean...)
}
