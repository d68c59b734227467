// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brightpixel/agencyweb/internal/model"
)

// testStore creates a migrated store in a temporary database file.
func testStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "agency-test.db")
	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	})
	return New(NewSQLiteBackend(db))
}

func TestPagesCRUD(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	page := &model.Page{Title: "Pricing", Slug: "pricing", PageType: model.PageTypeCustom, Status: model.StatusDraft}
	if err := st.Pages.Create(ctx, page); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if page.ID == "" {
		t.Fatal("Create did not assign an id")
	}
	if page.CreatedAt.IsZero() || !page.CreatedAt.Equal(page.UpdatedAt) {
		t.Errorf("timestamps not set: created=%v updated=%v", page.CreatedAt, page.UpdatedAt)
	}

	got, err := st.PageBySlug(ctx, "pricing")
	if err != nil {
		t.Fatalf("PageBySlug: %v", err)
	}
	if got.ID != page.ID || got.Title != "Pricing" {
		t.Errorf("got %+v", got)
	}

	got.Title = "Plans & Pricing"
	if err := st.Pages.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	reloaded, err := st.Pages.Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if reloaded.Title != "Plans & Pricing" {
		t.Errorf("Title = %q after update", reloaded.Title)
	}

	if err := st.Pages.Delete(ctx, page.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Pages.Get(ctx, page.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := st.Pages.Delete(ctx, page.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestDuplicateSlugDoesNotMutate(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	first := &model.Page{Title: "About", Slug: "about"}
	if err := st.Pages.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := &model.Page{Title: "About again", Slug: "about"}
	if err := st.Pages.Create(ctx, dup); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("Create duplicate = %v, want ErrDuplicateKey", err)
	}

	pages, err := st.Pages.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pages) != 1 || pages[0].Title != "About" {
		t.Errorf("pages = %+v, want only the original", pages)
	}

	other := &model.Page{Title: "Team", Slug: "team"}
	if err := st.Pages.Create(ctx, other); err != nil {
		t.Fatalf("Create: %v", err)
	}
	other.Slug = "about"
	if err := st.Pages.Update(ctx, other); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Update to taken slug = %v, want ErrDuplicateKey", err)
	}
}

func TestSectionsForPageInsertionOrder(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	page := &model.Page{Title: "Home", Slug: "home"}
	if err := st.Pages.Create(ctx, page); err != nil {
		t.Fatalf("Create page: %v", err)
	}
	other := &model.Page{Title: "Other", Slug: "other"}
	if err := st.Pages.Create(ctx, other); err != nil {
		t.Fatalf("Create page: %v", err)
	}

	names := []string{"hero", "stats", "cta"}
	for i, name := range names {
		sec := &model.PageSection{PageID: page.ID, ComponentName: name, Order: 10 - i, Content: json.RawMessage(`{}`), IsVisible: true}
		if err := st.Sections.Create(ctx, sec); err != nil {
			t.Fatalf("Create section: %v", err)
		}
	}
	if err := st.Sections.Create(ctx, &model.PageSection{PageID: other.ID, ComponentName: "about", Content: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("Create section: %v", err)
	}

	sections, err := st.SectionsForPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("SectionsForPage: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("len = %d, want 3", len(sections))
	}
	for i, name := range names {
		if sections[i].ComponentName != name {
			t.Errorf("sections[%d] = %q, want %q", i, sections[i].ComponentName, name)
		}
	}

	if err := st.DeleteSectionsForPage(ctx, page.ID); err != nil {
		t.Fatalf("DeleteSectionsForPage: %v", err)
	}
	left, _ := st.SectionsForPage(ctx, page.ID)
	if len(left) != 0 {
		t.Errorf("%d sections left after delete", len(left))
	}
	kept, _ := st.SectionsForPage(ctx, other.ID)
	if len(kept) != 1 {
		t.Errorf("other page lost its sections")
	}
}

func TestSiteSettingsSingleton(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	empty, err := st.SiteSettings(ctx)
	if err != nil {
		t.Fatalf("SiteSettings: %v", err)
	}
	if empty.ID != model.SiteSettingsID || len(empty.HomeBlocks()) != 0 {
		t.Errorf("unexpected unseeded settings: %+v", empty)
	}

	empty.SiteName = "Studio"
	empty.HomeHero = json.RawMessage(`{"heading":"Hi"}`)
	if err := st.SaveSiteSettings(ctx, empty); err != nil {
		t.Fatalf("SaveSiteSettings (create): %v", err)
	}
	empty.SiteName = "Studio 2"
	if err := st.SaveSiteSettings(ctx, empty); err != nil {
		t.Fatalf("SaveSiteSettings (update): %v", err)
	}

	got, err := st.SiteSettings(ctx)
	if err != nil {
		t.Fatalf("SiteSettings: %v", err)
	}
	if got.SiteName != "Studio 2" || len(got.HomeBlocks()) != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestFirstPageOfType(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	_ = st.Pages.Create(ctx, &model.Page{Title: "A", Slug: "a", PageType: model.PageTypeCustom})
	_ = st.Pages.Create(ctx, &model.Page{Title: "B", Slug: "b", PageType: model.PageTypeAbout})

	p, err := st.FirstPageOfType(ctx, model.PageTypeAbout)
	if err != nil {
		t.Fatalf("FirstPageOfType: %v", err)
	}
	if p.Slug != "b" {
		t.Errorf("Slug = %q, want b", p.Slug)
	}
	if _, err := st.FirstPageOfType(ctx, model.PageTypeBlog); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	admin := AdminSeed{Email: "Admin@Example.com", Password: "s3cret-Passw0rd"}

	if err := Seed(ctx, st, admin); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, st, admin); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	users, _ := st.Users.List(ctx)
	if len(users) != 1 || users[0].Email != "admin@example.com" {
		t.Errorf("users = %+v", users)
	}

	settings, err := st.SiteSettings(ctx)
	if err != nil {
		t.Fatalf("SiteSettings: %v", err)
	}
	if settings.SiteName == "" || len(settings.HomeBlocks()) == 0 {
		t.Errorf("settings not seeded: %+v", settings)
	}

	home, err := st.PageBySlug(ctx, model.HomeSlug)
	if err != nil {
		t.Fatalf("home page: %v", err)
	}
	if !home.IsPublished {
		t.Error("seeded home page should be published")
	}
	homeSections, _ := st.SectionsForPage(ctx, home.ID)
	if len(homeSections) != 0 {
		t.Errorf("home page should have no explicit sections, got %d", len(homeSections))
	}

	menus, _ := st.Menus.List(ctx)
	if len(menus) != 2 {
		t.Errorf("len(menus) = %d, want 2", len(menus))
	}
}

func TestSeedRequiresPasswordOnFirstRun(t *testing.T) {
	st := testStore(t)
	if err := Seed(context.Background(), st, AdminSeed{Email: "a@b.c"}); err == nil {
		t.Fatal("Seed without password should fail")
	}
}
