// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brightpixel/agencyweb/internal/auth"
	"github.com/brightpixel/agencyweb/internal/model"
)

//go:embed seeddata/site.yaml
var defaultSeed []byte

// DefaultAdminName is the display name of the seeded admin.
const DefaultAdminName = "Administrator"

// AdminSeed holds the credentials of the initial admin user.
type AdminSeed struct {
	Email    string
	Password string
}

// SeedData is the content of a seed file.
type SeedData struct {
	Settings seedSettings `yaml:"settings"`
	Menus    []seedMenu   `yaml:"menus"`
	Pages    []seedPage   `yaml:"pages"`
}

type seedSettings struct {
	SiteName         string            `yaml:"siteName"`
	Tagline          string            `yaml:"tagline"`
	ContactEmail     string            `yaml:"contactEmail"`
	ContactPhone     string            `yaml:"contactPhone"`
	Address          string            `yaml:"address"`
	SocialLinks      map[string]string `yaml:"socialLinks"`
	HomeHero         map[string]any    `yaml:"homeHero"`
	HomeAbout        map[string]any    `yaml:"homeAbout"`
	HomeStats        map[string]any    `yaml:"homeStats"`
	HomeClients      map[string]any    `yaml:"homeClients"`
	HomeProcess      map[string]any    `yaml:"homeProcess"`
	HomeAchievements map[string]any    `yaml:"homeAchievements"`
	HomeCTA          map[string]any    `yaml:"homeCTA"`
}

type seedMenu struct {
	Location string           `yaml:"location"`
	Title    string           `yaml:"title"`
	Items    []model.MenuItem `yaml:"items"`
}

type seedPage struct {
	Title       string        `yaml:"title"`
	Slug        string        `yaml:"slug"`
	PageType    string        `yaml:"pageType"`
	Description string        `yaml:"description"`
	Sections    []seedSection `yaml:"sections"`
}

type seedSection struct {
	ComponentName string         `yaml:"componentName"`
	Order         int            `yaml:"order"`
	Variant       string         `yaml:"variant"`
	Content       map[string]any `yaml:"content"`
}

// ParseSeed decodes a YAML seed file.
func ParseSeed(data []byte) (*SeedData, error) {
	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed data: %w", err)
	}
	return &seed, nil
}

// Seed creates the admin user and the default site content. Existing
// documents are left untouched, so running it twice is safe.
func Seed(ctx context.Context, st *Store, admin AdminSeed) error {
	seed, err := ParseSeed(defaultSeed)
	if err != nil {
		return err
	}
	if err := seedAdmin(ctx, st, admin); err != nil {
		return err
	}
	return SeedContent(ctx, st, seed)
}

func seedAdmin(ctx context.Context, st *Store, admin AdminSeed) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		return errors.New("seeding admin: email is required")
	}

	_, err := st.Users.GetByKey(ctx, email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed", "email", email)
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	if admin.Password == "" {
		return errors.New("seeding admin: AGENCY_ADMIN_PASSWORD is required for the first run")
	}
	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{Email: email, Name: DefaultAdminName, PasswordHash: hash, Role: model.RoleAdmin}
	if err := st.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

// SeedContent writes settings, menus and pages from seed data when they are missing.
func SeedContent(ctx context.Context, st *Store, seed *SeedData) error {
	if _, err := st.Settings.Get(ctx, model.SiteSettingsID); errors.Is(err, ErrNotFound) {
		settings, err := seed.Settings.toModel()
		if err != nil {
			return err
		}
		if err := st.SaveSiteSettings(ctx, settings); err != nil {
			return fmt.Errorf("seeding site settings: %w", err)
		}
		slog.Info("seeded site settings")
	} else if err != nil {
		return fmt.Errorf("checking site settings: %w", err)
	}

	for _, m := range seed.Menus {
		menu := &model.Menu{Location: m.Location, Title: m.Title, Items: m.Items}
		if err := createUnlessExists(ctx, st.Menus.Create, menu); err != nil {
			return fmt.Errorf("seeding menu %s: %w", m.Location, err)
		}
	}

	for _, p := range seed.Pages {
		if err := seedOnePage(ctx, st, p); err != nil {
			return fmt.Errorf("seeding page %s: %w", p.Slug, err)
		}
	}
	return nil
}

func seedOnePage(ctx context.Context, st *Store, p seedPage) error {
	if _, err := st.PageBySlug(ctx, p.Slug); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	page := &model.Page{
		Title:       p.Title,
		Slug:        p.Slug,
		PageType:    p.PageType,
		Description: p.Description,
	}
	page.Lifecycle().SetStatus(model.StatusPublished, st.Pages.now())
	if err := st.Pages.Create(ctx, page); err != nil {
		return err
	}

	for _, s := range p.Sections {
		content, err := json.Marshal(s.Content)
		if err != nil {
			return fmt.Errorf("encoding %s content: %w", s.ComponentName, err)
		}
		variant := s.Variant
		if variant == "" {
			variant = "default"
		}
		sec := &model.PageSection{
			PageID:        page.ID,
			ComponentName: s.ComponentName,
			Order:         s.Order,
			Content:       content,
			Variant:       variant,
			IsVisible:     true,
		}
		if err := st.Sections.Create(ctx, sec); err != nil {
			return err
		}
	}
	return nil
}

func createUnlessExists[T any](ctx context.Context, create func(context.Context, *T) error, doc *T) error {
	err := create(ctx, doc)
	if errors.Is(err, ErrDuplicateKey) {
		return nil
	}
	return err
}

func (s seedSettings) toModel() (*model.SiteSettings, error) {
	settings := &model.SiteSettings{
		SiteName:     s.SiteName,
		Tagline:      s.Tagline,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Address:      s.Address,
		SocialLinks:  s.SocialLinks,
	}
	blocks := []struct {
		src map[string]any
		dst *json.RawMessage
	}{
		{s.HomeHero, &settings.HomeHero},
		{s.HomeAbout, &settings.HomeAbout},
		{s.HomeStats, &settings.HomeStats},
		{s.HomeClients, &settings.HomeClients},
		{s.HomeProcess, &settings.HomeProcess},
		{s.HomeAchievements, &settings.HomeAchievements},
		{s.HomeCTA, &settings.HomeCTA},
	}
	for _, b := range blocks {
		if len(b.src) == 0 {
			continue
		}
		raw, err := json.Marshal(b.src)
		if err != nil {
			return nil, fmt.Errorf("encoding settings block: %w", err)
		}
		*b.dst = raw
	}
	return settings, nil
}
