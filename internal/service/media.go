// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/brightpixel/agencyweb/internal/blob"
	"github.com/brightpixel/agencyweb/internal/imaging"
	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/util"
)

// DefaultMaxUploadSize is used when no limit is configured.
const DefaultMaxUploadSize = 10 << 20

// UploadInput is one uploaded file with its descriptive fields.
type UploadInput struct {
	Filename string
	Alt      string
	Caption  string
	Body     io.Reader
}

// MediaPatch updates the descriptive fields of a media item.
type MediaPatch struct {
	Alt     *string `json:"alt"`
	Caption *string `json:"caption"`
}

// MediaService stores uploaded images in the blob store and keeps their
// metadata in the media collection.
type MediaService struct {
	st        *store.Store
	bucket    blob.Bucket
	processor *imaging.Processor
	maxSize   int64
	logger    *slog.Logger
}

// NewMediaService creates a media service. maxSize <= 0 selects DefaultMaxUploadSize.
func NewMediaService(st *store.Store, bucket blob.Bucket, maxSize int64, logger *slog.Logger) *MediaService {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &MediaService{
		st:        st,
		bucket:    bucket,
		processor: imaging.NewProcessor(),
		maxSize:   maxSize,
		logger:    logger,
	}
}

// MaxSize returns the upload limit in bytes.
func (s *MediaService) MaxSize() int64 { return s.maxSize }

// List returns every media item, newest first.
func (s *MediaService) List(ctx context.Context) ([]model.Media, error) {
	items, err := s.st.Media.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

// Get returns one media item.
func (s *MediaService) Get(ctx context.Context, id string) (*model.Media, error) {
	return s.st.Media.Get(ctx, id)
}

// Upload validates an image, normalises its orientation, writes it and its
// thumbnail to the blob store and records the metadata. Only images up to
// the configured size are accepted; the type is sniffed from the content.
func (s *MediaService) Upload(ctx context.Context, in UploadInput) (*model.Media, error) {
	filename, err := util.SanitizeFilename(in.Filename)
	if err != nil {
		return nil, invalid("file", "has an invalid name")
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, invalid("file", "is empty")
	}
	if int64(len(data)) > s.maxSize {
		return nil, invalid("file", fmt.Sprintf("exceeds the %d MB limit", s.maxSize>>20))
	}
	if !imaging.IsImage(imaging.DetectMimeType(data)) {
		return nil, invalid("file", "must be a JPEG, PNG, GIF or WebP image")
	}

	original, thumb, err := s.processor.Process(data)
	if err != nil {
		return nil, invalid("file", "could not be read as an image")
	}

	id := uuid.NewString()
	base := strings.TrimSuffix(filename, extOf(filename))
	m := &model.Media{
		Meta:     model.Meta{ID: id},
		Filename: base + original.Ext,
		BlobKey:  blob.Key(id, "original"+original.Ext),
		MimeType: original.MimeType,
		Size:     int64(len(original.Data)),
		Width:    original.Width,
		Height:   original.Height,
		Alt:      strings.TrimSpace(in.Alt),
		Caption:  strings.TrimSpace(in.Caption),
	}

	m.URL, err = s.bucket.Put(ctx, m.BlobKey, original.MimeType, bytes.NewReader(original.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	m.ThumbnailURL = m.URL
	if thumb != nil {
		m.ThumbnailKey = blob.Key(id, "thumb"+thumb.Ext)
		m.ThumbnailURL, err = s.bucket.Put(ctx, m.ThumbnailKey, thumb.MimeType, bytes.NewReader(thumb.Data))
		if err != nil {
			s.removeBlobs(ctx, m)
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
	}

	if err := s.st.Media.Create(ctx, m); err != nil {
		s.removeBlobs(ctx, m)
		return nil, err
	}
	s.logger.InfoContext(ctx, "media uploaded", "category", model.EventCategoryMedia, "media_id", m.ID, "size", m.Size)
	return m, nil
}

// Update changes alt text and caption.
func (s *MediaService) Update(ctx context.Context, id string, patch MediaPatch) (*model.Media, error) {
	m, err := s.st.Media.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Alt != nil {
		m.Alt = strings.TrimSpace(*patch.Alt)
	}
	if patch.Caption != nil {
		m.Caption = strings.TrimSpace(*patch.Caption)
	}
	if err := s.st.Media.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes the record and then its blobs. Blob failures are logged;
// the record is already gone.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	m, err := s.st.Media.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.st.Media.Delete(ctx, id); err != nil {
		return err
	}
	s.removeBlobs(ctx, m)
	return nil
}

func (s *MediaService) removeBlobs(ctx context.Context, m *model.Media) {
	for _, key := range []string{m.BlobKey, m.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err := s.bucket.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete media blob", "category", model.EventCategoryMedia, "key", key, "error", err)
		}
	}
}

func extOf(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		return filename[i:]
	}
	return ""
}
