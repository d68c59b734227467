// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSBucket stores objects in a Google Cloud Storage bucket.
type GCSBucket struct {
	client *storage.Client
	bucket string
	cache  string
}

// GCSConfig configures a GCSBucket.
type GCSConfig struct {
	Bucket string
	// CredentialsJSON is a service account key. When empty the application
	// default credentials are used.
	CredentialsJSON string
	// CacheControl is set on every uploaded object.
	CacheControl string
}

// NewGCSBucket connects to Cloud Storage.
func NewGCSBucket(ctx context.Context, cfg GCSConfig, opts ...option.ClientOption) (*GCSBucket, error) {
	name := strings.TrimSpace(cfg.Bucket)
	if name == "" {
		return nil, errors.New("blob: bucket name is required")
	}
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("blob: creating storage client: %w", err)
	}
	cache := cfg.CacheControl
	if cache == "" {
		cache = "public, max-age=31536000, immutable"
	}
	return &GCSBucket{client: client, bucket: name, cache: cache}, nil
}

// Put implements Bucket.
func (b *GCSBucket) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	key = strings.TrimLeft(key, "/")
	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = b.cache

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("blob: uploading %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("blob: finalising %s: %w", key, err)
	}
	return PublicURL(b.bucket, key), nil
}

// Delete implements Bucket.
func (b *GCSBucket) Delete(ctx context.Context, key string) error {
	key = strings.TrimLeft(key, "/")
	err := b.client.Bucket(b.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("blob: deleting %s: %w", key, err)
	}
	return nil
}

// Close releases the storage client.
func (b *GCSBucket) Close() error {
	return b.client.Close()
}

// PublicURL returns the public HTTPS URL of an object.
func PublicURL(bucket, key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return gcsPublicHost + "/" + bucket + "/" + strings.Join(segments, "/")
}
