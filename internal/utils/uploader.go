package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileUploader is the boundary to whatever blob storage hosts proof
// images and profile photos. Callers treat failures as non-fatal:
// records are created without an image URL rather than aborting.
type FileUploader interface {
	Upload(ctx context.Context, data []byte, suggestedName, folder string) (string, error)
}

// DiskUploader stores uploads under a local directory and returns a
// path-style URL. Used in development and as the default backend.
type DiskUploader struct {
	BaseDir string
	BaseURL string
}

func NewDiskUploader(baseDir, baseURL string) *DiskUploader {
	return &DiskUploader{BaseDir: baseDir, BaseURL: baseURL}
}

func (u *DiskUploader) Upload(_ context.Context, data []byte, suggestedName, folder string) (string, error) {
	dir := filepath.Join(u.BaseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), suggestedName)
	full := filepath.Join(dir, name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return u.BaseURL + "/" + folder + "/" + name, nil
}
