// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartUpload builds a multipart request body around the given
// payload and returns the parsed file and header, as a handler would
// see them.
func multipartUpload(t *testing.T, filename string, payload []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	return file, header
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadServiceSaveImage(t *testing.T) {
	dir := t.TempDir()
	uploads := NewUploadService(dir, discardLogger())

	file, header := multipartUpload(t, "avatar.png", testPNG(t, 64, 64))

	rel, err := uploads.SaveImage(file, header, UploadKindBots)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, filepath.Join("images", "bots")+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(rel, ".png"))
	assert.NotContains(t, rel, "avatar", "client filename must not be reused")

	_, err = os.Stat(filepath.Join(dir, rel))
	require.NoError(t, err)
}

func TestUploadServiceSaveImageCreatesThumbnail(t *testing.T) {
	dir := t.TempDir()
	uploads := NewUploadService(dir, discardLogger())

	file, header := multipartUpload(t, "big.png", testPNG(t, 800, 600))

	rel, err := uploads.SaveImage(file, header, UploadKindProducts)
	require.NoError(t, err)

	ext := filepath.Ext(rel)
	thumb := strings.TrimSuffix(rel, ext) + "_thumb" + ext
	_, err = os.Stat(filepath.Join(dir, thumb))
	require.NoError(t, err, "thumbnail should exist for large images")
}

func TestUploadServiceRejectsNonImage(t *testing.T) {
	uploads := NewUploadService(t.TempDir(), discardLogger())

	file, header := multipartUpload(t, "notes.txt", []byte("just some text"))

	_, err := uploads.SaveImage(file, header, UploadKindBots)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUploadServiceRejectsOversize(t *testing.T) {
	uploads := NewUploadService(t.TempDir(), discardLogger())

	file, header := multipartUpload(t, "huge.png", make([]byte, MaxUploadSize+1))

	_, err := uploads.SaveImage(file, header, UploadKindBots)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadServiceRemove(t *testing.T) {
	dir := t.TempDir()
	uploads := NewUploadService(dir, discardLogger())

	file, header := multipartUpload(t, "avatar.png", testPNG(t, 800, 600))
	rel, err := uploads.SaveImage(file, header, UploadKindBots)
	require.NoError(t, err)

	uploads.Remove(rel)
	_, err = os.Stat(filepath.Join(dir, rel))
	assert.True(t, os.IsNotExist(err))

	// Removing again, or removing nothing, must not panic.
	uploads.Remove(rel)
	uploads.Remove("")
}
