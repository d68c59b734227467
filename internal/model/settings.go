// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
)

// SiteSettingsID is the fixed identifier of the settings singleton.
const SiteSettingsID = "site"

// SiteSettings is the singleton holding global site data and the content
// blocks used to compose the home page when it has no explicit sections.
type SiteSettings struct {
	Meta
	SiteName     string            `json:"siteName"`
	Tagline      string            `json:"tagline,omitempty"`
	ContactEmail string            `json:"contactEmail,omitempty"`
	ContactPhone string            `json:"contactPhone,omitempty"`
	Address      string            `json:"address,omitempty"`
	SocialLinks  map[string]string `json:"socialLinks,omitempty"`

	HomeHero         json.RawMessage `json:"homeHero,omitempty"`
	HomeAbout        json.RawMessage `json:"homeAbout,omitempty"`
	HomeStats        json.RawMessage `json:"homeStats,omitempty"`
	HomeClients      json.RawMessage `json:"homeClients,omitempty"`
	HomeProcess      json.RawMessage `json:"homeProcess,omitempty"`
	HomeAchievements json.RawMessage `json:"homeAchievements,omitempty"`
	HomeCTA          json.RawMessage `json:"homeCTA,omitempty"`
}

// HomeBlock pairs a settings block with the section it renders as.
type HomeBlock struct {
	Field         string
	ComponentName string
	Order         int
	Content       json.RawMessage
}

// HomeBlocks returns the home page blocks in their conventional order.
// Blocks that are not set are left out.
func (s *SiteSettings) HomeBlocks() []HomeBlock {
	all := []HomeBlock{
		{Field: "homeHero", ComponentName: "hero", Order: 1, Content: s.HomeHero},
		{Field: "homeAbout", ComponentName: "about", Order: 2, Content: s.HomeAbout},
		{Field: "homeStats", ComponentName: "stats", Order: 3, Content: s.HomeStats},
		{Field: "homeClients", ComponentName: "clients", Order: 4, Content: s.HomeClients},
		{Field: "homeProcess", ComponentName: "process", Order: 5, Content: s.HomeProcess},
		{Field: "homeAchievements", ComponentName: "achievements", Order: 6, Content: s.HomeAchievements},
		{Field: "homeCTA", ComponentName: "cta", Order: 7, Content: s.HomeCTA},
	}
	present := all[:0]
	for _, b := range all {
		if blockPresent(b.Content) {
			present = append(present, b)
		}
	}
	return present
}

func blockPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch string(trimmed) {
	case "null", "{}", "[]", `""`:
		return false
	}
	return true
}
