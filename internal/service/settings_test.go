// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpixel/agencyweb/internal/testutil"
)

func TestSettingsUpdate(t *testing.T) {
	svc := NewSettingsService(testutil.TestStore(t))
	ctx := context.Background()

	empty, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.SiteName)

	_, err = svc.Update(ctx, []byte(`{"siteName":"Bright Pixel","homeHero":{"heading":"We build websites"}}`))
	require.NoError(t, err)

	_, err = svc.Update(ctx, []byte(`{"tagline":"Design studio"}`))
	require.NoError(t, err)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bright Pixel", got.SiteName)
	assert.Equal(t, "Design studio", got.Tagline)
	assert.JSONEq(t, `{"heading":"We build websites"}`, string(got.HomeHero))

	pub, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bright Pixel", pub.SiteName)
}

func TestSettingsUpdateValidatesHomeBlocks(t *testing.T) {
	svc := NewSettingsService(testutil.TestStore(t))
	ctx := context.Background()

	tests := map[string]string{
		"not an object": `{"homeHero":"big"}`,
		"wrong fields":  `{"homeStats":{"items":{"label":"x"}}}`,
		"broken json":   `{"siteName":`,
	}
	for name, patch := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Update(ctx, []byte(patch))
			assert.True(t, IsValidation(err), "err = %v", err)
		})
	}

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.HomeHero, "rejected updates are not stored")
}

func TestSettingsUpdateReplacesSocialLinks(t *testing.T) {
	svc := NewSettingsService(testutil.TestStore(t))
	ctx := context.Background()

	_, err := svc.Update(ctx, []byte(`{"socialLinks":{"twitter":"https://x.com/bp","dribbble":"https://dribbble.com/bp"}}`))
	require.NoError(t, err)

	_, err = svc.Update(ctx, []byte(`{"tagline":"Studio"}`))
	require.NoError(t, err)
	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, got.SocialLinks, 2, "patches without socialLinks keep the links")

	_, err = svc.Update(ctx, []byte(`{"socialLinks":{"dribbble":"https://dribbble.com/bp"}}`))
	require.NoError(t, err)
	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"dribbble": "https://dribbble.com/bp"}, got.SocialLinks)

	_, err = svc.Update(ctx, []byte(`{"socialLinks":{}}`))
	require.NoError(t, err)
	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.SocialLinks)
}
