// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/wickedhost/wicked-site/internal/imaging"
)

// MaxUploadSize is the maximum accepted image upload, in bytes.
const MaxUploadSize = 5 * 1024 * 1024

// Upload kinds determine the subdirectory an image lands in.
const (
	UploadKindBots     = "bots"
	UploadKindProducts = "products"
)

// Upload validation errors.
var (
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// UploadService stores catalog images under the uploads directory with
// generated names and thumbnail variants.
type UploadService struct {
	processor *imaging.Processor
	log       *slog.Logger
}

// NewUploadService creates an UploadService rooted at uploadDir.
func NewUploadService(uploadDir string, log *slog.Logger) *UploadService {
	return &UploadService{
		processor: imaging.NewProcessor(uploadDir),
		log:       log,
	}
}

// SaveImage validates and stores an uploaded image, returning its path
// relative to the uploads directory. The filename is generated, never
// taken from the client. Thumbnail creation is best-effort.
func (s *UploadService) SaveImage(file multipart.File, header *multipart.FileHeader, kind string) (string, error) {
	if header.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	mimeType := imaging.DetectMimeType(data)
	if !imaging.IsImage(mimeType) {
		return "", ErrUnsupportedType
	}

	filename := uuid.New().String() + extensionFor(mimeType)
	rel, err := s.processor.SaveImage(data, filepath.Join("images", kind), filename)
	if err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}

	if _, err := s.processor.CreateThumbnail(rel); err != nil {
		s.log.Warn("failed to create thumbnail", "path", rel, "error", err)
	}

	return rel, nil
}

// Remove deletes a stored image and its thumbnail. Failures are logged
// and swallowed: a missing file must not block catalog changes.
func (s *UploadService) Remove(relPath string) {
	if relPath == "" {
		return
	}
	if err := s.processor.DeleteImage(relPath); err != nil {
		s.log.Warn("failed to remove uploaded image", "path", relPath, "error", err)
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case imaging.MimeTypePNG:
		return ".png"
	case imaging.MimeTypeGIF:
		return ".gif"
	default:
		return ".jpg"
	}
}
