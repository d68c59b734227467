// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the documents stored by the site: pages and their
// section instances, site settings, blog posts, portfolio items and the
// other entities managed through the admin API.
package model

import "time"

// Meta holds the fields every stored document carries.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Base returns the document metadata. It lets generic store code reach the
// embedded Meta of any model.
func (m *Meta) Base() *Meta { return m }

// Document is implemented by pointers to every model that embeds Meta.
type Document interface {
	Base() *Meta
}

// SEO holds per-entity search metadata.
type SEO struct {
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	OGImage         string   `json:"ogImage,omitempty"`
	CanonicalURL    string   `json:"canonicalUrl,omitempty"`
	NoIndex         bool     `json:"noIndex,omitempty"`
}
