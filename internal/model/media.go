// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported image MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Thumbnail bounds for uploaded images.
const (
	ThumbnailWidth  = 400
	ThumbnailHeight = 300
)

// Media is an uploaded image stored in the blob store.
type Media struct {
	Meta
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	BlobKey      string `json:"blobKey"`
	ThumbnailKey string `json:"thumbnailKey,omitempty"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Alt          string `json:"alt,omitempty"`
	Caption      string `json:"caption,omitempty"`
}
