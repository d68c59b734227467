// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package section

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidContent is returned for section content that is not a JSON object.
var ErrInvalidContent = errors.New("section content must be a JSON object")

// Content is the decoded payload of a section instance. Each section kind
// has its own concrete type; OpaqueContent covers the rest.
type Content interface {
	Kind() string
}

// HeroContent is the payload of a hero section.
type HeroContent struct {
	Heading         string `json:"heading"`
	Subheading      string `json:"subheading,omitempty"`
	CTALabel        string `json:"ctaLabel,omitempty"`
	CTAURL          string `json:"ctaUrl,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

// AboutContent is the payload of an about section. Body is markdown.
type AboutContent struct {
	Heading string `json:"heading"`
	Body    string `json:"body,omitempty"`
	Image   string `json:"image,omitempty"`
}

// Stat is one figure in a stats section.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StatsContent is the payload of a stats section.
type StatsContent struct {
	Heading string `json:"heading,omitempty"`
	Items   []Stat `json:"items"`
}

// Logo is a client logo.
type Logo struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ClientsContent is the payload of a clients section.
type ClientsContent struct {
	Heading string `json:"heading,omitempty"`
	Logos   []Logo `json:"logos"`
}

// Step is one stage of the work process.
type Step struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ProcessContent is the payload of a process section.
type ProcessContent struct {
	Heading string `json:"heading,omitempty"`
	Steps   []Step `json:"steps"`
}

// Achievement is an award or milestone.
type Achievement struct {
	Title       string `json:"title"`
	Year        string `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

// AchievementsContent is the payload of an achievements section.
type AchievementsContent struct {
	Heading string        `json:"heading,omitempty"`
	Items   []Achievement `json:"items"`
}

// CTAContent is the payload of a call-to-action section.
type CTAContent struct {
	Heading     string `json:"heading"`
	Body        string `json:"body,omitempty"`
	ButtonLabel string `json:"buttonLabel,omitempty"`
	ButtonURL   string `json:"buttonUrl,omitempty"`
}

// ListContent is the payload of sections listing stored entities such as
// services or blog posts. Limit 0 shows everything.
type ListContent struct {
	Heading      string `json:"heading,omitempty"`
	Subheading   string `json:"subheading,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	FeaturedOnly bool   `json:"featuredOnly,omitempty"`
}

// ContactContent is the payload of a contact section.
type ContactContent struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// QA is one FAQ entry.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQContent is the payload of an FAQ section.
type FAQContent struct {
	Heading string `json:"heading,omitempty"`
	Items   []QA   `json:"items"`
}

// RichTextContent is free markdown.
type RichTextContent struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body"`
}

// OpaqueContent keeps the raw payload of sections without a typed shape.
type OpaqueContent struct {
	Key string
	Raw json.RawMessage
}

func (HeroContent) Kind() string         { return KeyHero }
func (AboutContent) Kind() string        { return KeyAbout }
func (StatsContent) Kind() string        { return KeyStats }
func (ClientsContent) Kind() string      { return KeyClients }
func (ProcessContent) Kind() string      { return KeyProcess }
func (AchievementsContent) Kind() string { return KeyAchievements }
func (CTAContent) Kind() string          { return KeyCTA }
func (ListContent) Kind() string         { return "list" }
func (ContactContent) Kind() string      { return KeyContact }
func (FAQContent) Kind() string          { return KeyFAQ }
func (RichTextContent) Kind() string     { return KeyRichText }
func (o OpaqueContent) Kind() string     { return o.Key }

// Get returns a top-level string field of the payload.
func (o OpaqueContent) Get(path string) string {
	return gjson.GetBytes(o.Raw, path).String()
}

// Heading returns the heading or title field, whichever is set.
func (o OpaqueContent) Heading() string {
	if h := o.Get("heading"); h != "" {
		return h
	}
	return o.Get("title")
}

// Body returns the body or text field, whichever is set.
func (o OpaqueContent) Body() string {
	if b := o.Get("body"); b != "" {
		return b
	}
	return o.Get("text")
}

// ValidateContent checks that raw is a JSON object. Empty content is allowed.
func ValidateContent(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if !gjson.ValidBytes(trimmed) || !gjson.ParseBytes(trimmed).IsObject() {
		return ErrInvalidContent
	}
	return nil
}

// Decode converts a raw payload into the typed content of the given section.
// Keys without a typed shape decode to OpaqueContent.
func Decode(key string, raw []byte) (Content, error) {
	if err := ValidateContent(raw); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	var target Content
	switch key {
	case KeyHero:
		target = &HeroContent{}
	case KeyAbout:
		target = &AboutContent{}
	case KeyStats:
		target = &StatsContent{}
	case KeyClients:
		target = &ClientsContent{}
	case KeyProcess:
		target = &ProcessContent{}
	case KeyAchievements:
		target = &AchievementsContent{}
	case KeyCTA:
		target = &CTAContent{}
	case KeyServices, KeyPortfolio, KeyTestimonials, KeyTeam, KeyBlog:
		target = &ListContent{}
	case KeyContact:
		target = &ContactContent{}
	case KeyFAQ:
		target = &FAQContent{}
	case KeyRichText:
		target = &RichTextContent{}
	default:
		return OpaqueContent{Key: key, Raw: json.RawMessage(raw)}, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decoding %s content: %w", key, err)
	}
	return target, nil
}
