// Package storage handles the uploads directory holding original videos
// and generated thumbnails, with an optional GCS mirror.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type LocalStorage struct {
	uploadsDir string
}

func NewLocalStorage(uploadsDir string) *LocalStorage {
	return &LocalStorage{uploadsDir: uploadsDir}
}

func (s *LocalStorage) EnsureDirectories() error {
	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return nil
}

// SaveUpload streams an incoming video into the uploads directory and
// returns its path.
func (s *LocalStorage) SaveUpload(filename string, r io.Reader) (string, error) {
	if err := s.EnsureDirectories(); err != nil {
		return "", err
	}

	path := filepath.Join(s.uploadsDir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return path, nil
}

// SaveThumbnail writes generated image bytes next to the uploads and
// returns the path.
func (s *LocalStorage) SaveThumbnail(filename string, data []byte) (string, error) {
	if err := s.EnsureDirectories(); err != nil {
		return "", err
	}

	path := filepath.Join(s.uploadsDir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}

	return path, nil
}

// Path returns the local path a stored file would have.
func (s *LocalStorage) Path(filename string) string {
	return filepath.Join(s.uploadsDir, filepath.Base(filename))
}

// Dir returns the uploads directory.
func (s *LocalStorage) Dir() string {
	return s.uploadsDir
}
