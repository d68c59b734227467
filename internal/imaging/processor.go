// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalises uploaded images and builds their thumbnails
// in memory, ready to be written to the blob store.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/brightpixel/agencyweb/internal/model"
)

// ErrUnsupportedFormat is returned for data that is not a JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Image is an encoded image with its metadata.
type Image struct {
	Data     []byte
	MimeType string
	Ext      string
	Width    int
	Height   int
}

// Processor decodes, orients and resizes images.
type Processor struct {
	ThumbWidth  int
	ThumbHeight int
	Quality     int
}

// NewProcessor creates a processor producing 400x300 thumbnails.
func NewProcessor() *Processor {
	return &Processor{
		ThumbWidth:  model.ThumbnailWidth,
		ThumbHeight: model.ThumbnailHeight,
		Quality:     90,
	}
}

// Process decodes data, applies the EXIF orientation and re-encodes it.
// The thumbnail fits within the thumbnail bounds; it is nil when the image
// is already that small.
func (p *Processor) Process(data []byte) (original, thumb *Image, err error) {
	format := detectFormat(data)
	if format == "" {
		return nil, nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	// Pure Go encoders drop EXIF, which also strips location data.
	original, err = p.encode(img, format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode image: %w", err)
	}

	if original.Width <= p.ThumbWidth && original.Height <= p.ThumbHeight {
		return original, nil, nil
	}
	resized := imaging.Fit(img, p.ThumbWidth, p.ThumbHeight, imaging.Lanczos)
	thumb, err = p.encode(resized, format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return original, thumb, nil
}

func (p *Processor) encode(img image.Image, format string) (*Image, error) {
	data, err := encodeImage(img, format, p.Quality)
	if err != nil {
		return nil, err
	}
	out := outputFormat(format)
	b := img.Bounds()
	return &Image{
		Data:     data,
		MimeType: formatToMimeType(out),
		Ext:      "." + out,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

// IsImage checks if a MIME type represents an image that can be processed.
func IsImage(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP:
		return true
	default:
		return false
	}
}

// DetectMimeType sniffs the MIME type of data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation turns an image upright according to its EXIF orientation
// (2..8; anything else is returned unchanged).
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch outputFormat(format) {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// outputFormat maps a decoded format to the one written back. There is no
// pure Go WebP encoder, so WebP becomes JPEG.
func outputFormat(format string) string {
	switch format {
	case "png", "gif":
		return format
	default:
		return "jpg"
	}
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
