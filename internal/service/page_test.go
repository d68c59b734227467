// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPageCreateDefaultsToPublished(t *testing.T) {
	svc := NewPageService(testutil.TestStore(t))
	ctx := context.Background()

	p, err := svc.Create(ctx, PageInput{Title: ptr("Pricing"), Slug: ptr("pricing")})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, model.StatusPublished, p.Status)
	assert.True(t, p.IsPublished)
	assert.NotNil(t, p.PublishedAt)
	assert.Equal(t, model.PageTypeCustom, p.PageType)
}

func TestPageCreateDerivesSlug(t *testing.T) {
	svc := NewPageService(testutil.TestStore(t))
	p, err := svc.Create(context.Background(), PageInput{Title: ptr("Über Uns"), IsPublished: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "uber-uns", p.Slug)
	assert.Equal(t, model.StatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
}

func TestPageCreateHomeSlugSetsType(t *testing.T) {
	svc := NewPageService(testutil.TestStore(t))
	p, err := svc.Create(context.Background(), PageInput{Title: ptr("Home"), Slug: ptr("home")})
	require.NoError(t, err)
	assert.Equal(t, model.PageTypeHome, p.PageType)
}

func TestPageCreateValidation(t *testing.T) {
	svc := NewPageService(testutil.TestStore(t))
	ctx := context.Background()

	tests := []struct {
		name  string
		in    PageInput
		field string
	}{
		{"missing title", PageInput{Slug: ptr("x")}, "title"},
		{"bad slug", PageInput{Title: ptr("X"), Slug: ptr("Not A Slug")}, "slug"},
		{"bad type", PageInput{Title: ptr("X"), PageType: ptr("landing")}, "pageType"},
		{"bad status", PageInput{Title: ptr("X"), Status: ptr("live")}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestPageDuplicateSlugDoesNotMutate(t *testing.T) {
	st := testutil.TestStore(t)
	svc := NewPageService(st)
	ctx := context.Background()

	_, err := svc.Create(ctx, PageInput{Title: ptr("About"), Slug: ptr("about")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, PageInput{Title: ptr("About again"), Slug: ptr("about")})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	pages, err := st.Pages.List(ctx)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
	assert.Equal(t, "About", pages[0].Title)
}

func TestPageUpdateSlugConflict(t *testing.T) {
	svc := NewPageService(testutil.TestStore(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, PageInput{Title: ptr("A"), Slug: ptr("a")})
	require.NoError(t, err)
	b, err := svc.Create(ctx, PageInput{Title: ptr("B"), Slug: ptr("b")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, b.ID, PageInput{Slug: ptr("a")})
	assert.True(t, IsValidation(err))

	updated, err := svc.Update(ctx, b.ID, PageInput{Title: ptr("B2"), Slug: ptr("b")})
	require.NoError(t, err)
	assert.Equal(t, "B2", updated.Title)
}

func TestPageUnpublishKeepsPublishedAt(t *testing.T) {
	svc := NewPageService(testutil.TestStore(t))
	published := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = fixedClock(published)
	ctx := context.Background()

	p, err := svc.Create(ctx, PageInput{Title: ptr("Launch"), Status: ptr(model.StatusPublished)})
	require.NoError(t, err)

	svc.now = fixedClock(published.Add(48 * time.Hour))
	p, err = svc.SetPublished(ctx, p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, p.Status)
	assert.False(t, p.IsPublished)
	require.NotNil(t, p.PublishedAt)
	assert.True(t, p.PublishedAt.Equal(published))

	p, err = svc.SetPublished(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, p.Status)
	assert.True(t, p.PublishedAt.Equal(published), "republishing keeps the first publication time")

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPublished)
}

func TestPageTransitions(t *testing.T) {
	svc := NewPageService(testutil.TestStore(t))
	ctx := context.Background()

	p, err := svc.Create(ctx, PageInput{Title: ptr("Flow"), Status: ptr(model.StatusDraft)})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, p.ID, model.StatusArchived)
	assert.ErrorIs(t, err, ErrInvalidTransition, "draft cannot be archived directly")

	p, err = svc.Transition(ctx, p.ID, model.StatusPublished)
	require.NoError(t, err)
	assert.True(t, p.IsPublished)

	p, err = svc.Transition(ctx, p.ID, model.StatusPublished)
	require.NoError(t, err, "same status is a no-op")

	p, err = svc.Transition(ctx, p.ID, model.StatusArchived)
	require.NoError(t, err)
	assert.False(t, p.IsPublished)

	_, err = svc.Transition(ctx, p.ID, model.StatusDraft)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.SetPublished(ctx, p.ID, true)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Transition(ctx, p.ID, "deleted")
	assert.True(t, IsValidation(err))

	_, err = svc.Transition(ctx, "missing", model.StatusDraft)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageDeleteCascadesSections(t *testing.T) {
	st := testutil.TestStore(t)
	svc := NewPageService(st)
	ctx := context.Background()

	p, err := svc.Create(ctx, PageInput{Title: ptr("Gone")})
	require.NoError(t, err)
	require.NoError(t, st.Sections.Create(ctx, &model.PageSection{PageID: p.ID, ComponentName: "hero", IsVisible: true}))

	require.NoError(t, svc.Delete(ctx, p.ID))

	sections, err := st.SectionsForPage(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, sections)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}

func TestPagePublishDue(t *testing.T) {
	svc := NewPageService(testutil.TestStore(t))
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)
	ctx := context.Background()

	due, err := svc.Create(ctx, PageInput{Title: ptr("Due"), Status: ptr(model.StatusDraft), ScheduledAt: ptr(now.Add(-time.Minute))})
	require.NoError(t, err)
	later, err := svc.Create(ctx, PageInput{Title: ptr("Later"), Status: ptr(model.StatusDraft), ScheduledAt: ptr(now.Add(time.Hour))})
	require.NoError(t, err)

	n, err := svc.PublishDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := svc.Get(ctx, due.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
	assert.Nil(t, got.ScheduledAt)

	got, err = svc.Get(ctx, later.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublished)
}
