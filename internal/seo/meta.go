// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds meta tags, structured data, the sitemap and robots.txt.
package seo

import (
	"encoding/json"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/brightpixel/agencyweb/internal/model"
)

// Meta holds all SEO meta tag data for a page.
type Meta struct {
	Title         string // <title>
	Description   string
	Keywords      string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGImage       string // absolute
	OGType        string // website, article
	OGSiteName    string
	OGURL         string
	Robots        string // index,follow / noindex,follow
	TwitterCard   string
}

// PageData is what a rendered document contributes to its meta tags.
type PageData struct {
	Title       string
	Path        string // site path such as /about or /blog/post
	Summary     string // fallback description, may contain HTML
	Image       string // fallback share image
	SEO         model.SEO
	Article     bool
	PublishedAt *time.Time
	Author      string
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
}

// BuildMeta creates the meta tags of a document. A nil page yields the
// site defaults used by the home page.
func BuildMeta(page *PageData, site *SiteConfig) *Meta {
	meta := &Meta{
		OGType:      "website",
		TwitterCard: "summary_large_image",
		OGSiteName:  site.SiteName,
		Title:       site.SiteName,
		Description: site.SiteDescription,
		Canonical:   strings.TrimSuffix(site.SiteURL, "/"),
		Robots:      "index,follow",
	}
	if site.DefaultOGImage != "" {
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}

	if page != nil {
		if page.Article {
			meta.OGType = "article"
		}
		switch {
		case page.SEO.MetaTitle != "":
			meta.Title = page.SEO.MetaTitle
		case page.Title != "" && page.Path != "/":
			meta.Title = page.Title + " | " + site.SiteName
		}

		switch {
		case page.SEO.MetaDescription != "":
			meta.Description = page.SEO.MetaDescription
		case page.Summary != "":
			meta.Description = truncateText(stripHTML(page.Summary), 160)
		}
		meta.Keywords = strings.Join(page.SEO.Keywords, ", ")

		switch {
		case page.SEO.OGImage != "":
			meta.OGImage = makeAbsoluteURL(page.SEO.OGImage, site.SiteURL)
		case page.Image != "":
			meta.OGImage = makeAbsoluteURL(page.Image, site.SiteURL)
		}

		switch {
		case page.SEO.CanonicalURL != "":
			meta.Canonical = page.SEO.CanonicalURL
		case page.Path != "" && page.Path != "/":
			meta.Canonical = makeAbsoluteURL(page.Path, site.SiteURL)
		}
		if page.SEO.NoIndex {
			meta.Robots = "noindex,follow"
		}
	}

	meta.OGTitle = meta.Title
	meta.OGDescription = meta.Description
	meta.OGURL = meta.Canonical
	return meta
}

// ApplyEntry overlays a per-path SEO entry managed in the admin. Empty
// fields of the entry leave the meta unchanged.
func ApplyEntry(meta *Meta, entry *model.SEOEntry, siteURL string) {
	if entry == nil {
		return
	}
	if entry.Title != "" {
		meta.Title, meta.OGTitle = entry.Title, entry.Title
	}
	if entry.Description != "" {
		meta.Description, meta.OGDescription = entry.Description, entry.Description
	}
	if len(entry.Keywords) > 0 {
		meta.Keywords = strings.Join(entry.Keywords, ", ")
	}
	if entry.OGImage != "" {
		meta.OGImage = makeAbsoluteURL(entry.OGImage, siteURL)
	}
	if entry.NoIndex {
		meta.Robots = "noindex,follow"
	}
}

// SummaryFromSections returns the first text a visitor would read on a page
// built from sections: a subheading, a lead or a body of the first visible
// section that has one.
func SummaryFromSections(sections []model.PageSection) string {
	for _, s := range sections {
		if !s.IsVisible {
			continue
		}
		for _, field := range []string{"subheading", "lead", "body", "description"} {
			if v := gjson.GetBytes(s.Content, field); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
				return v.Str
			}
		}
	}
	return ""
}

// ArticleSchema represents JSON-LD Article structured data.
type ArticleSchema struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	Author           *PersonSchema `json:"author,omitempty"`
	Publisher        *OrgSchema    `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

// PersonSchema represents JSON-LD Person structured data.
type PersonSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Context string       `json:"@context,omitempty"`
	Type    string       `json:"@type"`
	Name    string       `json:"name"`
	URL     string       `json:"url,omitempty"`
	Email   string       `json:"email,omitempty"`
	Logo    *ImageSchema `json:"logo,omitempty"`
	SameAs  []string     `json:"sameAs,omitempty"`
}

// ImageSchema represents JSON-LD ImageObject structured data.
type ImageSchema struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// BuildArticleSchema creates JSON-LD Article data for a blog post.
func BuildArticleSchema(page *PageData, site *SiteConfig, modifiedAt time.Time) template.JS {
	if page == nil {
		return ""
	}

	article := ArticleSchema{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         page.Title,
		Description:      page.SEO.MetaDescription,
		MainEntityOfPage: makeAbsoluteURL(page.Path, site.SiteURL),
		Publisher:        &OrgSchema{Type: "Organization", Name: site.SiteName},
	}
	if article.Description == "" && page.Summary != "" {
		article.Description = truncateText(stripHTML(page.Summary), 160)
	}
	if img := firstNonEmpty(page.SEO.OGImage, page.Image); img != "" {
		article.Image = makeAbsoluteURL(img, site.SiteURL)
	}
	if page.PublishedAt != nil {
		article.DatePublished = page.PublishedAt.Format(time.RFC3339)
	}
	if !modifiedAt.IsZero() {
		article.DateModified = modifiedAt.Format(time.RFC3339)
	}
	if page.Author != "" {
		article.Author = &PersonSchema{Type: "Person", Name: page.Author}
	}
	if site.DefaultOGImage != "" {
		article.Publisher.Logo = &ImageSchema{Type: "ImageObject", URL: makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)}
	}
	return marshalJSONLD(article)
}

// BuildOrganizationSchema describes the agency itself for the home page.
func BuildOrganizationSchema(settings *model.SiteSettings, site *SiteConfig) template.JS {
	org := OrgSchema{
		Context: "https://schema.org",
		Type:    "Organization",
		Name:    firstNonEmpty(settings.SiteName, site.SiteName),
		URL:     site.SiteURL,
		Email:   settings.ContactEmail,
	}
	for _, link := range settings.SocialLinks {
		if link != "" {
			org.SameAs = append(org.SameAs, link)
		}
	}
	sort.Strings(org.SameAs)
	if site.DefaultOGImage != "" {
		org.Logo = &ImageSchema{Type: "ImageObject", URL: makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)}
	}
	return marshalJSONLD(org)
}

func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// stripHTML removes HTML tags from a string.
func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// truncateText truncates text to maxLen bytes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}

	truncated := strings.ToValidUTF8(text[:maxLen], "")
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
