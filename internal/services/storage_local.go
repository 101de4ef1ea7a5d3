package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/sangeet/internal/shared"
)

// LocalStorage implements [ObjectStorage] on the local filesystem.
//
// Objects are written to <dir>/<kind>/<uuid><ext> and addressed as <baseURL>/<kind>/<uuid><ext>.
type LocalStorage struct {
	dir     string
	baseURL string
}

var _ ObjectStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a [LocalStorage] rooted at dir.
func NewLocalStorage(dir, baseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the root directory objects are written to.
func (s *LocalStorage) Dir() string { return s.dir }

// UploadAsset stores the content of r and returns its URL.
func (s *LocalStorage) UploadAsset(ctx context.Context, r io.Reader, kind AssetKind) (string, error) {
	if _, err := ParseAssetKind(string(kind)); err != nil {
		return "", err
	}
	if r == nil {
		return "", fmt.Errorf("%w: no %s asset supplied", shared.ErrInvalidArgument, kind)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s asset: %w", kind, err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext, err := DetectExtension(data, kind)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.dir, string(kind))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	name := shared.GenerateID() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s asset: %w", kind, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, kind, name), nil
}
