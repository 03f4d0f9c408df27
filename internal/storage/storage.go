// Package storage persists uploaded recipe images on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"savora/internal/uuid"
)

// MaxImageSize caps uploaded image payloads at 5 MB.
const MaxImageSize = 5 << 20

// allowedExtensions lists the accepted image file extensions.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ImageStore writes recipe images beneath a base directory. Files live at
// <base>/recipes/<recipeID>/<uuidv7><ext> so a recipe's images are grouped
// under a path derived from its identifier.
type ImageStore struct {
	baseDir string
}

// NewImageStore creates an ImageStore rooted at baseDir.
func NewImageStore(baseDir string) *ImageStore {
	return &ImageStore{baseDir: baseDir}
}

// Allowed reports whether the file name carries a supported image extension.
func Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Save stores the uploaded file for the given recipe and returns the
// path relative to the base directory. The caller validates the extension
// beforehand via Allowed.
func (s *ImageStore) Save(recipeID uint, header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	rel := filepath.Join("recipes", fmt.Sprintf("%d", recipeID), uuid.New()+ext)
	full := filepath.Join(s.baseDir, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return rel, nil
}

// Remove deletes a previously stored image. A missing file is not an error;
// the reference is stale either way.
func (s *ImageStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.baseDir, rel)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
