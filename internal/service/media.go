// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds server-side operations shared by several handlers.
package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // registers the WebP decoder with image.Decode

	"github.com/olegiv/parish-go/internal/util"
)

// Upload limits and locations.
const (
	MaxUploadSize    = 10 * 1024 * 1024
	MaxImageSide     = 10000
	DefaultUploadDir = "./uploads"
	UploadURLPrefix  = "/uploads/"
)

// Upload folders, one per kind of owner.
const (
	FolderPageContent   = "page-content"
	FolderSlides        = "slides"
	FolderSacraments    = "sacraments"
	FolderServices      = "services"
	FolderAnnouncements = "announcements"
	FolderEvents        = "events"
	FolderHistory       = "history"
)

var validFolders = map[string]bool{
	FolderPageContent:   true,
	FolderSlides:        true,
	FolderSacraments:    true,
	FolderServices:      true,
	FolderAnnouncements: true,
	FolderEvents:        true,
	FolderHistory:       true,
}

// Upload errors. Handlers map them to 400 responses.
var (
	ErrFileTooLarge     = fmt.Errorf("file exceeds %d MB", MaxUploadSize/(1024*1024))
	ErrUnsupportedType  = errors.New("only JPEG, PNG, GIF and WebP images are accepted")
	ErrInvalidImage     = errors.New("file is not a valid image")
	ErrUnknownFolder    = errors.New("unknown upload folder")
	ErrImageTooLarge    = fmt.Errorf("image sides must be at most %d pixels", MaxImageSide)
	ErrEmptyUpload      = errors.New("file is empty")
	errNotManagedUpload = errors.New("not a managed upload")
)

// allowedTypes maps sniffed content types to the stored file extension.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService stores uploaded images under a local directory and returns
// site-relative paths to them.
type MediaService struct {
	uploadDir string
	logger    *slog.Logger
	newName   func() string
}

// NewMediaService creates a media service rooted at uploadDir.
func NewMediaService(uploadDir string, logger *slog.Logger) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaService{
		uploadDir: uploadDir,
		logger:    logger,
		newName:   uuid.NewString,
	}
}

// UploadDir returns the directory files are written to.
func (s *MediaService) UploadDir() string {
	return s.uploadDir
}

// SaveImage validates r as an image and writes it to folder under a
// random name. It returns the public path, e.g. /uploads/slides/<uuid>.jpg.
func (s *MediaService) SaveImage(folder string, r io.Reader) (string, error) {
	if !validFolders[folder] {
		return "", fmt.Errorf("%w: %q", ErrUnknownFolder, folder)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	if len(data) > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	ext, ok := allowedTypes[http.DetectContentType(data)]
	if !ok {
		return "", ErrUnsupportedType
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if b := img.Bounds(); b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
		return "", ErrImageTooLarge
	}

	name := s.newName() + ext
	dest, err := util.SafeJoinPath(s.uploadDir, folder, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating upload folder: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}

	s.logger.Debug("image uploaded", "path", dest, "size", len(data))
	return UploadURLPrefix + folder + "/" + name, nil
}

// Remove deletes a file previously returned by SaveImage. Paths outside
// the upload directory, such as bundled /images defaults, are ignored.
func (s *MediaService) Remove(publicPath string) error {
	path, err := s.localPath(publicPath)
	if errors.Is(err, errNotManagedUpload) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}

// Replace removes oldPath when it differs from newPath. Failures are logged
// since the new reference has already been saved.
func (s *MediaService) Replace(oldPath, newPath string) {
	if oldPath == "" || oldPath == newPath {
		return
	}
	if err := s.Remove(oldPath); err != nil {
		s.logger.Warn("failed to remove replaced upload", "path", oldPath, "error", err)
	}
}

func (s *MediaService) localPath(publicPath string) (string, error) {
	rel, ok := strings.CutPrefix(publicPath, UploadURLPrefix)
	if !ok || rel == "" {
		return "", errNotManagedUpload
	}
	return util.SafeJoinPath(s.uploadDir, filepath.FromSlash(rel))
}
