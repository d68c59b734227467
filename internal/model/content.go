// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Service is an agency offering listed on the services page.
type Service struct {
	Meta
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Features    []string `json:"features,omitempty"`
	Order       int      `json:"order"`
	IsActive    bool     `json:"isActive"`
}

// PortfolioItem is a case study shown in the portfolio.
type PortfolioItem struct {
	Meta
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Client      string   `json:"client,omitempty"`
	Category    string   `json:"category,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Body        string   `json:"body,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty"`
	Gallery     []string `json:"gallery,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ProjectURL  string   `json:"projectUrl,omitempty"`
	Featured    bool     `json:"featured"`
	Order       int      `json:"order"`
	IsPublished bool     `json:"isPublished"`
}

// Testimonial is a client quote.
type Testimonial struct {
	Meta
	Author   string `json:"author"`
	Role     string `json:"role,omitempty"`
	Company  string `json:"company,omitempty"`
	Quote    string `json:"quote"`
	Avatar   string `json:"avatar,omitempty"`
	Rating   int    `json:"rating"`
	Order    int    `json:"order"`
	IsActive bool   `json:"isActive"`
}

// TeamMember is a person shown on the about page.
type TeamMember struct {
	Meta
	Name        string            `json:"name"`
	Role        string            `json:"role"`
	Bio         string            `json:"bio,omitempty"`
	Photo       string            `json:"photo,omitempty"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"`
	Order       int               `json:"order"`
	IsActive    bool              `json:"isActive"`
}

// Menu locations
const (
	MenuHeader = "header"
	MenuFooter = "footer"
)

// Menu is a navigation menu bound to a layout location.
type Menu struct {
	Meta
	Location string     `json:"location"`
	Title    string     `json:"title"`
	Items    []MenuItem `json:"items"`
}

// MenuItem is a single navigation link.
type MenuItem struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Order    int    `json:"order"`
	External bool   `json:"external,omitempty"`
}

// SEOEntry overrides search metadata for a site path.
type SEOEntry struct {
	Meta
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
	OGImage     string   `json:"ogImage,omitempty"`
	NoIndex     bool     `json:"noIndex,omitempty"`
}

// Subscriber statuses
const (
	SubscriberSubscribed   = "subscribed"
	SubscriberUnsubscribed = "unsubscribed"
)

// Subscriber is a newsletter sign-up.
type Subscriber struct {
	Meta
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
	Source string `json:"source,omitempty"`
}
