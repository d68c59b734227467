// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/section"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/testutil"
)

func sectionFixture(t *testing.T) (*SectionService, *store.Store, *model.Page) {
	t.Helper()
	st := testutil.TestStore(t)
	reg, err := section.NewDefault()
	require.NoError(t, err)

	p, err := NewPageService(st).Create(context.Background(), PageInput{Title: ptr("Services")})
	require.NoError(t, err)
	return NewSectionService(st, reg), st, p
}

func TestSectionCreate(t *testing.T) {
	svc, _, p := sectionFixture(t)
	ctx := context.Background()

	sec, err := svc.Create(ctx, SectionInput{
		PageID:     &p.ID,
		SectionKey: ptr("HeroSection"),
		Content:    json.RawMessage(`{"heading":"Hello"}`),
		Variant:    ptr("split"),
	})
	require.NoError(t, err)
	assert.Equal(t, section.KeyHero, sec.ComponentName)
	assert.Equal(t, "split", sec.Variant)
	assert.True(t, sec.IsVisible)

	next, err := svc.Create(ctx, SectionInput{PageID: &p.ID, ComponentName: ptr("cta"), Variant: ptr("neon")})
	require.NoError(t, err)
	assert.Greater(t, next.Order, sec.Order, "appended after existing sections")
	assert.Equal(t, section.DefaultVariant, next.Variant, "unknown variant falls back to default")
}

func TestSectionCreateValidation(t *testing.T) {
	svc, _, p := sectionFixture(t)
	ctx := context.Background()
	missing := "no-such-page"

	tests := []struct {
		name  string
		in    SectionInput
		field string
	}{
		{"no page", SectionInput{ComponentName: ptr("hero")}, "pageId"},
		{"unknown page", SectionInput{PageID: &missing, ComponentName: ptr("hero")}, "pageId"},
		{"no component", SectionInput{PageID: &p.ID}, "componentName"},
		{"unknown component", SectionInput{PageID: &p.ID, ComponentName: ptr("carousel-3d")}, "componentName"},
		{"array content", SectionInput{PageID: &p.ID, ComponentName: ptr("hero"), Content: json.RawMessage(`[1,2]`)}, "content"},
		{"mistyped content", SectionInput{PageID: &p.ID, ComponentName: ptr("stats"), Content: json.RawMessage(`{"items":"x"}`)}, "content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSectionUpdateAndVisibility(t *testing.T) {
	svc, _, p := sectionFixture(t)
	ctx := context.Background()

	sec, err := svc.Create(ctx, SectionInput{PageID: &p.ID, ComponentName: ptr("faq")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, sec.ID, SectionInput{IsVisible: ptr(false), Order: ptr(9)})
	require.NoError(t, err)
	assert.False(t, updated.IsVisible)
	assert.Equal(t, 9, updated.Order)
	assert.Equal(t, section.KeyFAQ, updated.ComponentName)

	list, err := svc.ListForPage(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1, "hidden sections are still listed for admins")
}

func TestSectionReorder(t *testing.T) {
	svc, _, p := sectionFixture(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"hero", "services", "cta"} {
		sec, err := svc.Create(ctx, SectionInput{PageID: &p.ID, ComponentName: ptr(name)})
		require.NoError(t, err)
		ids = append(ids, sec.ID)
	}

	list, err := svc.Reorder(ctx, p.ID, []string{ids[2], ids[0], ids[1]})
	require.NoError(t, err)
	got := []string{list[0].ComponentName, list[1].ComponentName, list[2].ComponentName}
	assert.Equal(t, []string{"cta", "hero", "services"}, got)

	_, err = svc.Reorder(ctx, p.ID, []string{ids[0], "foreign"})
	assert.True(t, IsValidation(err))
	_, err = svc.Reorder(ctx, p.ID, []string{ids[0], ids[0]})
	assert.True(t, IsValidation(err))
	_, err = svc.Reorder(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
