// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"slices"
	"strings"
	"sync"
	"time"
)

// Tags attached to cached pages. PageTag builds the per-page tag.
const (
	TagPages    = "pages"
	TagHome     = "home"
	TagBlog     = "blog"
	TagSettings = "settings"
	TagSitemap  = "sitemap"
)

const (
	pageKeyPrefix = "page:"
	tagKeyPrefix  = "tag:"
)

// PageTag returns the tag of the page with the given slug.
func PageTag(slug string) string {
	return "page:" + slug
}

// Entry is one rendered response.
type Entry struct {
	Body        []byte    `json:"body"`
	ContentType string    `json:"contentType"`
	Tags        []string  `json:"tags,omitempty"`
	StoredAt    time.Time `json:"storedAt"`
}

// PageCache keeps rendered public responses by request path. Entries expire
// after the TTL and can be dropped early by path or by tag. Content writes do
// not touch it; revalidation is explicit.
type PageCache struct {
	c   Cacher
	ttl time.Duration

	// Serialises tag index updates within this process.
	mu sync.Mutex
}

// NewPageCache wraps c. A zero ttl disables the cache.
func NewPageCache(c Cacher, ttl time.Duration) *PageCache {
	return &PageCache{c: c, ttl: ttl}
}

// Enabled reports whether responses are cached at all.
func (p *PageCache) Enabled() bool {
	return p != nil && p.c != nil && p.ttl > 0
}

// Get returns the cached entry for path.
func (p *PageCache) Get(ctx context.Context, pagePath string) (*Entry, bool) {
	if !p.Enabled() {
		return nil, false
	}
	data, err := p.c.Get(ctx, pageKeyPrefix+NormalizePath(pagePath))
	if err != nil {
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return &e, true
}

// Set stores e under path and records path under each of its tags.
func (p *PageCache) Set(ctx context.Context, pagePath string, e Entry) error {
	if !p.Enabled() {
		return nil
	}
	pagePath = NormalizePath(pagePath)
	if e.StoredAt.IsZero() {
		e.StoredAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := p.c.Set(ctx, pageKeyPrefix+pagePath, data, p.ttl); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, tag := range e.Tags {
		paths, err := p.tagged(ctx, tag)
		if err != nil {
			return err
		}
		if slices.Contains(paths, pagePath) {
			continue
		}
		if err := p.saveTagged(ctx, tag, append(paths, pagePath)); err != nil {
			return err
		}
	}
	return nil
}

// InvalidatePaths drops the entries of paths and returns the normalised paths.
func (p *PageCache) InvalidatePaths(ctx context.Context, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, raw := range paths {
		pagePath := NormalizePath(raw)
		if !p.Enabled() {
			out = append(out, pagePath)
			continue
		}
		if err := p.c.Delete(ctx, pageKeyPrefix+pagePath); err != nil {
			return out, err
		}
		out = append(out, pagePath)
	}
	return out, nil
}

// InvalidateTags drops every entry stored under any of tags.
func (p *PageCache) InvalidateTags(ctx context.Context, tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	if !p.Enabled() {
		for _, tag := range tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				out = append(out, tag)
			}
		}
		return out, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		paths, err := p.tagged(ctx, tag)
		if err != nil {
			return out, err
		}
		for _, pagePath := range paths {
			if err := p.c.Delete(ctx, pageKeyPrefix+pagePath); err != nil {
				return out, err
			}
		}
		if err := p.c.Delete(ctx, tagKeyPrefix+tag); err != nil {
			return out, err
		}
		out = append(out, tag)
	}
	return out, nil
}

// Clear drops every cached response.
func (p *PageCache) Clear(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.c.Clear(ctx)
}

// Stats returns backend statistics when the backend keeps them.
func (p *PageCache) Stats() (Stats, bool) {
	if p == nil || p.c == nil {
		return Stats{}, false
	}
	sp, ok := p.c.(StatsProvider)
	if !ok {
		return Stats{}, false
	}
	return sp.Stats(), true
}

func (p *PageCache) tagged(ctx context.Context, tag string) ([]string, error) {
	data, err := p.c.Get(ctx, tagKeyPrefix+tag)
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return nil, nil
	}
	return paths, nil
}

func (p *PageCache) saveTagged(ctx context.Context, tag string, paths []string) error {
	data, err := json.Marshal(paths)
	if err != nil {
		return err
	}
	// The index outlives its entries so a late invalidation still finds them.
	return p.c.Set(ctx, tagKeyPrefix+tag, data, 2*p.ttl)
}

// NormalizePath cleans a request path: leading slash, no trailing slash,
// no query string.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
