// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpixel/agencyweb/internal/auth"
	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/testutil"
)

func seedUser(t *testing.T, st *store.Store, email, password string, params auth.Params) *model.User {
	t.Helper()
	hash, err := params.Hash(password)
	require.NoError(t, err)
	u := &model.User{Email: email, Name: "Admin", PasswordHash: hash, Role: model.RoleAdmin}
	require.NoError(t, st.Users.Create(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	st := testutil.TestStore(t)
	seeded := seedUser(t, st, "admin@example.com", "correct horse", auth.DefaultParams)
	svc := NewAuthService(st, testutil.DiscardLogger())
	login := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(login)
	ctx := context.Background()

	u, err := svc.Login(ctx, " Admin@Example.com ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, u.ID)
	require.NotNil(t, u.LastLoginAt)
	assert.True(t, u.LastLoginAt.Equal(login))

	for _, tc := range []struct{ email, password string }{
		{"admin@example.com", "wrong"},
		{"admin@example.com", ""},
		{"other@example.com", "correct horse"},
		{"not-an-email", "correct horse"},
	} {
		_, err := svc.Login(ctx, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrInvalidCredentials, tc.email)
	}
}

func TestLoginRehashesWeakHash(t *testing.T) {
	st := testutil.TestStore(t)
	weak := auth.DefaultParams
	weak.Time = 1
	seeded := seedUser(t, st, "old@example.com", "s3cret-pass", weak)
	svc := NewAuthService(st, testutil.DiscardLogger())

	_, err := svc.Login(context.Background(), "old@example.com", "s3cret-pass")
	require.NoError(t, err)

	stored, err := svc.User(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.NotEqual(t, seeded.PasswordHash, stored.PasswordHash)
	assert.False(t, auth.NeedsRehash(stored.PasswordHash))
}
