// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test unless AGENCY_TEST_REDIS_URL is set.
func skipIfNoRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("AGENCY_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: AGENCY_TEST_REDIS_URL not set")
	}
	opts := DefaultRedisCacheOptions()
	opts.URL = url
	opts.Prefix = "agency-test:"
	opts.DefaultTTL = time.Minute
	c, err := NewRedisCache(context.Background(), opts)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	_ = c.Clear(context.Background())
	t.Cleanup(func() {
		_ = c.Clear(context.Background())
		_ = c.Close()
	})
	return c
}

func TestRedisCache_Basic(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := cache.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if has, _ := cache.Has(ctx, "k"); !has {
		t.Error("Has = false")
	}
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "page:/a", []byte("1"), 0)
	_ = cache.Set(ctx, "page:/b", []byte("2"), 0)
	_ = cache.Set(ctx, "tag:pages", []byte("3"), 0)

	if err := cache.DeleteByPrefix(ctx, "page:"); err != nil {
		t.Fatal(err)
	}
	if has, _ := cache.Has(ctx, "page:/a"); has {
		t.Error("page:/a survived")
	}
	if has, _ := cache.Has(ctx, "tag:pages"); !has {
		t.Error("tag:pages was removed")
	}
	if items := cache.Stats().Items; items != 1 {
		t.Errorf("Items = %d, want 1", items)
	}
}

func TestRedisCache_Close(t *testing.T) {
	cache := skipIfNoRedis(t)
	_ = cache.Close()
	if err := cache.Ping(context.Background()); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Ping after Close: %v", err)
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, RedisCacheOptions{}); err == nil {
		t.Error("expected error with empty URL")
	}
	if _, err := NewRedisCache(ctx, RedisCacheOptions{URL: "invalid-url"}); err == nil {
		t.Error("expected error with invalid URL")
	}
}
