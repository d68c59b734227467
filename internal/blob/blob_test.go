// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"abc", "photo.jpg"}, "media/abc/photo.jpg"},
		{[]string{"/abc/", "", "thumb.jpg"}, "media/abc/thumb.jpg"},
		{nil, "media"},
	}
	for _, tt := range tests {
		if got := Key(tt.parts...); got != tt.want {
			t.Errorf("Key(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestLocalBucketPutDelete(t *testing.T) {
	dir := t.TempDir()
	b := NewLocalBucket(dir, "/uploads/")
	ctx := context.Background()

	url, err := b.Put(ctx, "media/abc/photo.jpg", "image/jpeg", strings.NewReader("jpeg bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/uploads/media/abc/photo.jpg" {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "media", "abc", "photo.jpg"))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("stored = %q", data)
	}

	if err := b.Delete(ctx, "media/abc/photo.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "media", "abc", "photo.jpg")); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
	if err := b.Delete(ctx, "media/abc/photo.jpg"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestLocalBucketStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	b := NewLocalBucket(filepath.Join(dir, "uploads"), "/uploads")

	url, err := b.Put(context.Background(), "../../escape.txt", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/uploads/escape.txt" {
		t.Errorf("url = %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "uploads", "escape.txt")); err != nil {
		t.Errorf("file not stored inside the bucket: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(err) {
		t.Error("file written outside the bucket directory")
	}
}

func TestLocalBucketCancelledContext(t *testing.T) {
	b := NewLocalBucket(t.TempDir(), "/uploads")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Put(ctx, "media/x.jpg", "image/jpeg", strings.NewReader("data")); err == nil {
		t.Error("Put with cancelled context succeeded")
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("agency-media", "/media/id/my photo.jpg")
	want := "https://storage.googleapis.com/agency-media/media/id/my%20photo.jpg"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
}
