// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpixel/agencyweb/internal/blob"
	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/testutil"
)

func pngUpload(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func mediaFixture(t *testing.T, maxSize int64) (*MediaService, string) {
	t.Helper()
	dir := t.TempDir()
	bucket := blob.NewLocalBucket(dir, "/uploads")
	return NewMediaService(testutil.TestStore(t), bucket, maxSize, testutil.DiscardLogger()), dir
}

func TestMediaUpload(t *testing.T) {
	svc, dir := mediaFixture(t, 0)
	ctx := context.Background()

	m, err := svc.Upload(ctx, UploadInput{
		Filename: "Team Photo.png",
		Alt:      " The team ",
		Body:     bytes.NewReader(pngUpload(t, 800, 600)),
	})
	require.NoError(t, err)
	assert.Equal(t, model.MimeTypePNG, m.MimeType)
	assert.Equal(t, 800, m.Width)
	assert.Equal(t, "The team", m.Alt)
	assert.True(t, strings.HasPrefix(m.URL, "/uploads/media/"), m.URL)
	assert.NotEqual(t, m.URL, m.ThumbnailURL)

	for _, key := range []string{m.BlobKey, m.ThumbnailKey} {
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
		assert.NoError(t, err, key)
	}

	require.NoError(t, svc.Delete(ctx, m.ID))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(m.BlobKey)))
	assert.True(t, os.IsNotExist(err))
	_, err = svc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMediaUploadSmallImageReusesOriginal(t *testing.T) {
	svc, _ := mediaFixture(t, 0)
	m, err := svc.Upload(context.Background(), UploadInput{Filename: "dot.png", Body: bytes.NewReader(pngUpload(t, 16, 16))})
	require.NoError(t, err)
	assert.Empty(t, m.ThumbnailKey)
	assert.Equal(t, m.URL, m.ThumbnailURL)
}

func TestMediaUploadRejects(t *testing.T) {
	svc, _ := mediaFixture(t, 1024)

	tests := []struct {
		name string
		in   UploadInput
	}{
		{"empty", UploadInput{Filename: "a.png", Body: bytes.NewReader(nil)}},
		{"too large", UploadInput{Filename: "a.png", Body: bytes.NewReader(make([]byte, 2048))}},
		{"not an image", UploadInput{Filename: "notes.txt", Body: strings.NewReader("hello there")}},
		{"bad name", UploadInput{Filename: "", Body: strings.NewReader("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, "file")
		})
	}

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMediaUpdate(t *testing.T) {
	svc, _ := mediaFixture(t, 0)
	ctx := context.Background()
	m, err := svc.Upload(ctx, UploadInput{Filename: "logo.png", Body: bytes.NewReader(pngUpload(t, 10, 10))})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, m.ID, MediaPatch{Caption: ptr("Studio logo")})
	require.NoError(t, err)
	assert.Equal(t, "Studio logo", updated.Caption)
	assert.Equal(t, m.Filename, updated.Filename)
}
