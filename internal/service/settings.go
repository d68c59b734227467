// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/section"
	"github.com/brightpixel/agencyweb/internal/store"
)

// PublicSettings is the part of the site settings exposed without a session.
type PublicSettings struct {
	SiteName     string            `json:"siteName"`
	Tagline      string            `json:"tagline,omitempty"`
	ContactEmail string            `json:"contactEmail,omitempty"`
	ContactPhone string            `json:"contactPhone,omitempty"`
	Address      string            `json:"address,omitempty"`
	SocialLinks  map[string]string `json:"socialLinks,omitempty"`
}

// SettingsService reads and updates the site settings singleton.
type SettingsService struct {
	st *store.Store
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(st *store.Store) *SettingsService {
	return &SettingsService{st: st}
}

// Get returns the settings.
func (s *SettingsService) Get(ctx context.Context) (*model.SiteSettings, error) {
	return s.st.SiteSettings(ctx)
}

// Public returns the settings fields safe to show to visitors.
func (s *SettingsService) Public(ctx context.Context) (*PublicSettings, error) {
	settings, err := s.st.SiteSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &PublicSettings{
		SiteName:     settings.SiteName,
		Tagline:      settings.Tagline,
		ContactEmail: settings.ContactEmail,
		ContactPhone: settings.ContactPhone,
		Address:      settings.Address,
		SocialLinks:  settings.SocialLinks,
	}, nil
}

// Update merges a JSON patch into the settings. Home blocks must be JSON
// objects whose fields match their section.
func (s *SettingsService) Update(ctx context.Context, patch []byte) (*model.SiteSettings, error) {
	settings, err := s.st.SiteSettings(ctx)
	if err != nil {
		return nil, err
	}
	meta := settings.Meta
	// A socialLinks key replaces the whole map so links can be removed.
	if gjson.ValidBytes(patch) && gjson.GetBytes(patch, "socialLinks").Exists() {
		settings.SocialLinks = nil
	}
	if err := json.Unmarshal(patch, settings); err != nil {
		return nil, invalid("body", "is not valid JSON")
	}
	settings.Meta = meta

	v := validator{}
	for _, b := range settings.HomeBlocks() {
		if err := section.ValidateContent(b.Content); err != nil {
			v.add(b.Field, "must be a JSON object")
			continue
		}
		if _, err := section.Decode(b.ComponentName, b.Content); err != nil {
			v.add(b.Field, "does not match the "+b.ComponentName+" section fields")
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.st.SaveSiteSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
