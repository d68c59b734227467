// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/brightpixel/agencyweb/internal/util"
)

// LocalBucket writes objects below a directory on disk.
type LocalBucket struct {
	dir     string
	baseURL string
}

// NewLocalBucket creates a bucket rooted at dir whose objects are served
// under baseURL, usually "/uploads".
func NewLocalBucket(dir, baseURL string) *LocalBucket {
	return &LocalBucket{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the root directory.
func (b *LocalBucket) Dir() string { return b.dir }

// Put implements Bucket. The file is written to a temporary name first and
// renamed into place.
func (b *LocalBucket) Put(ctx context.Context, key, _ string, r io.Reader) (string, error) {
	key = cleanKey(key)
	target, err := util.SafeJoinPath(b.dir, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating blob file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r}); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing blob %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("storing blob %s: %w", key, err)
	}
	return b.baseURL + "/" + key, nil
}

// Delete implements Bucket.
func (b *LocalBucket) Delete(_ context.Context, key string) error {
	target, err := util.SafeJoinPath(b.dir, cleanKey(key))
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}

// cleanKey resolves dot segments so the key cannot climb out of the bucket.
func cleanKey(key string) string {
	return strings.TrimPrefix(path.Clean("/"+key), "/")
}

// ctxReader stops a copy once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
