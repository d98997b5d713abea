// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging processes uploaded catalog images using pure Go
// libraries.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Supported MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
)

// Thumbnail dimensions for catalog listings.
const (
	ThumbnailWidth   = 320
	ThumbnailHeight  = 320
	thumbnailQuality = 85
)

// Processor handles image processing for the uploads directory.
type Processor struct {
	uploadDir string
}

// NewProcessor creates an image processor rooted at uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// IsImage checks if a MIME type represents an image that can be processed.
func IsImage(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF:
		return true
	default:
		return false
	}
}

// DetectMimeType detects the MIME type of image data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// SaveImage decodes and re-encodes image data, stripping any embedded
// metadata, and saves it under uploadDir/subDir. Returns the path of
// the saved file relative to uploadDir.
func (p *Processor) SaveImage(data []byte, subDir, filename string) (string, error) {
	format := detectFormat(data)
	if format == "" {
		return "", fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	processed, err := encodeImage(img, format, 95)
	if err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}

	return p.saveImageFile(subDir, filename, processed)
}

// CreateThumbnail creates a resized variant next to the source file,
// named with a _thumb suffix. Sources already smaller than the
// thumbnail bounds are skipped and an empty path is returned.
func (p *Processor) CreateThumbnail(relPath string) (string, error) {
	sourcePath := filepath.Join(p.uploadDir, relPath)
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("opening source image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= ThumbnailWidth && bounds.Dy() <= ThumbnailHeight {
		return "", nil
	}

	resized := imaging.Fit(img, ThumbnailWidth, ThumbnailHeight, imaging.Lanczos)

	format := detectFormatFromFilename(relPath)
	processed, err := encodeImage(resized, format, thumbnailQuality)
	if err != nil {
		return "", fmt.Errorf("encoding thumbnail: %w", err)
	}

	thumbRel := thumbPath(relPath)
	return p.saveImageFile(filepath.Dir(thumbRel), filepath.Base(thumbRel), processed)
}

// DeleteImage removes an uploaded image and its thumbnail, if present.
func (p *Processor) DeleteImage(relPath string) error {
	full := filepath.Join(p.uploadDir, filepath.Clean(relPath))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting image: %w", err)
	}
	thumb := filepath.Join(p.uploadDir, thumbPath(relPath))
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting thumbnail: %w", err)
	}
	return nil
}

// thumbPath derives the thumbnail path from an image path by inserting
// a _thumb suffix before the extension.
func thumbPath(relPath string) string {
	ext := filepath.Ext(relPath)
	return strings.TrimSuffix(relPath, ext) + "_thumb" + ext
}

// encodeImage encodes an image to bytes with the specified format and quality.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
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
	default:
		return ""
	}
}

// detectFormatFromFilename extracts format from filename extension.
func detectFormatFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	default:
		return "jpeg"
	}
}

// saveImageFile creates the directory if needed and saves image data.
// The filename is sanitized and the target directory is validated to be
// within uploadDir. Returns the path relative to uploadDir.
func (p *Processor) saveImageFile(subDir, filename string, data []byte) (string, error) {
	safeFilename := filepath.Base(filename)
	if safeFilename == "." || safeFilename == ".." || safeFilename == "" {
		return "", fmt.Errorf("invalid filename")
	}

	cleanSubDir := filepath.Clean(subDir)
	if strings.Contains(cleanSubDir, "..") || filepath.IsAbs(cleanSubDir) {
		return "", fmt.Errorf("invalid subdirectory path")
	}

	absBase, err := filepath.Abs(p.uploadDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	absTarget := filepath.Join(absBase, cleanSubDir)

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(absTarget, 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(absTarget, safeFilename), data, 0644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return filepath.Join(cleanSubDir, safeFilename), nil
}
