// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Post is a blog article. Body is markdown.
type Post struct {
	Meta
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Author      string     `json:"author,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Status      string     `json:"status"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	SEO         SEO        `json:"seo"`
}

// Publishable is implemented by documents that follow the status lifecycle.
type Publishable interface {
	Document
	Lifecycle() *Lifecycle
}

// Lifecycle exposes the status fields of a page or post by reference.
type Lifecycle struct {
	Status      *string
	IsPublished *bool
	PublishedAt **time.Time
	ScheduledAt **time.Time
}

// Lifecycle returns references to the page's status fields.
func (p *Page) Lifecycle() *Lifecycle {
	return &Lifecycle{Status: &p.Status, IsPublished: &p.IsPublished, PublishedAt: &p.PublishedAt, ScheduledAt: &p.ScheduledAt}
}

// Lifecycle returns references to the post's status fields.
func (p *Post) Lifecycle() *Lifecycle {
	return &Lifecycle{Status: &p.Status, IsPublished: &p.IsPublished, PublishedAt: &p.PublishedAt, ScheduledAt: &p.ScheduledAt}
}

// SetStatus moves the document to status, keeping isPublished in sync and
// stamping publishedAt the first time it is published. Unpublishing never
// clears publishedAt.
func (l *Lifecycle) SetStatus(status string, now time.Time) {
	*l.Status = status
	*l.IsPublished = status == StatusPublished
	if status == StatusPublished {
		if *l.PublishedAt == nil {
			t := now
			*l.PublishedAt = &t
		}
		*l.ScheduledAt = nil
	}
}
