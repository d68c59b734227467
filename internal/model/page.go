// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// Page types
const (
	PageTypeHome      = "home"
	PageTypeAbout     = "about"
	PageTypeService   = "service"
	PageTypeContact   = "contact"
	PageTypePortfolio = "portfolio"
	PageTypeBlog      = "blog"
	PageTypeCustom    = "custom"
)

// ValidPageTypes lists every accepted page type.
var ValidPageTypes = []string{
	PageTypeHome, PageTypeAbout, PageTypeService, PageTypeContact,
	PageTypePortfolio, PageTypeBlog, PageTypeCustom,
}

// IsValidPageType checks if t is an enumerated page type.
func IsValidPageType(t string) bool {
	for _, v := range ValidPageTypes {
		if v == t {
			return true
		}
	}
	return false
}

// HomeSlug is the reserved slug of the home page.
const HomeSlug = "home"

// Page is a routable content entity composed of section instances.
type Page struct {
	Meta
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	PageType    string     `json:"pageType"`
	Status      string     `json:"status"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	SEO         SEO        `json:"seo"`
}

// IsHome reports whether the page is the site's home page.
func (p *Page) IsHome() bool {
	return p.Slug == HomeSlug || p.PageType == PageTypeHome
}

// PageSection places a section definition on a page.
type PageSection struct {
	Meta
	PageID        string          `json:"pageId"`
	ComponentName string          `json:"componentName"`
	Order         int             `json:"order"`
	Content       json.RawMessage `json:"content"`
	Variant       string          `json:"variant"`
	IsVisible     bool            `json:"isVisible"`
}

// UnmarshalJSON accepts sectionKey as an alias of componentName and
// defaults isVisible to true when it is omitted.
func (s *PageSection) UnmarshalJSON(data []byte) error {
	type alias PageSection
	aux := struct {
		*alias
		SectionKey string `json:"sectionKey"`
		IsVisible  *bool  `json:"isVisible"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.ComponentName == "" {
		s.ComponentName = aux.SectionKey
	}
	s.IsVisible = aux.IsVisible == nil || *aux.IsVisible
	return nil
}

// MarshalJSON writes sectionKey next to componentName for clients that read either.
func (s PageSection) MarshalJSON() ([]byte, error) {
	type alias PageSection
	return json.Marshal(struct {
		alias
		SectionKey string `json:"sectionKey"`
	}{alias: alias(s), SectionKey: s.ComponentName})
}
