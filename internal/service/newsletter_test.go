// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/testutil"
)

func TestSubscribeIsIdempotent(t *testing.T) {
	st := testutil.TestStore(t)
	svc := NewNewsletterService(st)
	ctx := context.Background()

	first, created, err := svc.Subscribe(ctx, SubscribeInput{Email: "Kim@Example.com", Name: " Kim "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "kim@example.com", first.Email)
	assert.Equal(t, "Kim", first.Name)
	assert.Equal(t, "website", first.Source)

	again, created, err := svc.Subscribe(ctx, SubscribeInput{Email: "kim@example.com", Source: "footer"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	all, err := st.Subscribers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSubscribeReactivates(t *testing.T) {
	st := testutil.TestStore(t)
	svc := NewNewsletterService(st)
	ctx := context.Background()

	sub, _, err := svc.Subscribe(ctx, SubscribeInput{Email: "lee@example.com"})
	require.NoError(t, err)
	sub.Status = model.SubscriberUnsubscribed
	require.NoError(t, st.Subscribers.Update(ctx, sub))

	back, created, err := svc.Subscribe(ctx, SubscribeInput{Email: "lee@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.SubscriberSubscribed, back.Status)
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	svc := NewNewsletterService(testutil.TestStore(t))
	for _, email := range []string{"", "nobody", "two@@example.com"} {
		_, _, err := svc.Subscribe(context.Background(), SubscribeInput{Email: email})
		var ve *ValidationError
		if assert.ErrorAs(t, err, &ve, email) {
			assert.Contains(t, ve.Fields, "email")
		}
	}
}
