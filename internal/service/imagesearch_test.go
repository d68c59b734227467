// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photoSearchResponse = `{
  "total": 2,
  "results": [
    {"id": "abc", "description": "Desk with laptop", "width": 4000, "height": 3000,
     "urls": {"regular": "https://img.example/abc-r", "small": "https://img.example/abc-s"},
     "user": {"name": "Sam Doe", "links": {"html": "https://unsplash.com/@sam"}}},
    {"id": "def", "description": null, "alt_description": "office plants", "width": 1200, "height": 800,
     "urls": {"regular": "https://img.example/def-r", "small": "https://img.example/def-s"},
     "user": {"name": "Alex", "links": {"html": "https://unsplash.com/@alex"}}}
  ]
}`

func TestImageSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "office", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Client-ID key-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(photoSearchResponse))
	}))
	defer srv.Close()

	search := NewImageSearch(srv.URL, "key-123", srv.Client())
	results, err := search.Search(context.Background(), " office ", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, ImageResult{
		ID:          "abc",
		Description: "Desk with laptop",
		URL:         "https://img.example/abc-r",
		ThumbURL:    "https://img.example/abc-s",
		Width:       4000,
		Height:      3000,
		Author:      "Sam Doe",
		AuthorURL:   "https://unsplash.com/@sam",
	}, results[0])
	assert.Equal(t, "office plants", results[1].Description)
}

func TestImageSearchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()
	ctx := context.Background()

	_, err := NewImageSearch(srv.URL, "key", srv.Client()).Search(ctx, "office", 0)
	assert.ErrorIs(t, err, ErrUpstream)

	disabled := NewImageSearch(srv.URL, "", nil)
	assert.False(t, disabled.Enabled())
	_, err = disabled.Search(ctx, "office", 0)
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = NewImageSearch(srv.URL, "key", nil).Search(ctx, "  ", 0)
	assert.True(t, IsValidation(err))
}
