// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultImageSearchURL is the Unsplash API root.
const DefaultImageSearchURL = "https://api.unsplash.com"

// ImageResult is one stock photo returned by a search.
type ImageResult struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ThumbURL    string `json:"thumbUrl"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Author      string `json:"author"`
	AuthorURL   string `json:"authorUrl"`
}

// ImageSearch queries the Unsplash photo search API.
type ImageSearch struct {
	baseURL   string
	accessKey string
	client    *http.Client
}

// NewImageSearch creates a client. An empty baseURL selects Unsplash.
func NewImageSearch(baseURL, accessKey string, client *http.Client) *ImageSearch {
	if baseURL == "" {
		baseURL = DefaultImageSearchURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ImageSearch{baseURL: strings.TrimRight(baseURL, "/"), accessKey: accessKey, client: client}
}

// Enabled reports whether an access key is configured.
func (s *ImageSearch) Enabled() bool {
	return s != nil && s.accessKey != ""
}

// Search returns up to perPage photos matching query.
func (s *ImageSearch) Search(ctx context.Context, query string, perPage int) ([]ImageResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("q", "is required")
	}
	if !s.Enabled() {
		return nil, fmt.Errorf("%w: image search is not configured", ErrUpstream)
	}
	if perPage <= 0 || perPage > 30 {
		perPage = 12
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building image search request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: image search: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading image search response: %w", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: image search returned %d", ErrUpstream, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: image search returned invalid JSON", ErrUpstream)
	}

	results := gjson.GetBytes(body, "results").Array()
	out := make([]ImageResult, 0, len(results))
	for _, r := range results {
		desc := r.Get("description").String()
		if desc == "" {
			desc = r.Get("alt_description").String()
		}
		out = append(out, ImageResult{
			ID:          r.Get("id").String(),
			Description: desc,
			URL:         r.Get("urls.regular").String(),
			ThumbURL:    r.Get("urls.small").String(),
			Width:       int(r.Get("width").Int()),
			Height:      int(r.Get("height").Int()),
			Author:      r.Get("user.name").String(),
			AuthorURL:   r.Get("user.links.html").String(),
		})
	}
	return out, nil
}
