package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists video records as a JSON array on disk. All mutations
// rewrite the whole file through a temp file rename so a crash never
// leaves a half-written catalog behind.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns all records. A missing file is an empty catalog.
func (s *Store) Load() ([]VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]VideoRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []VideoRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var records []VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return records, nil
}

func (s *Store) save(records []VideoRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close catalog: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}

// Append adds a record unless one with the same video ID already exists.
func (s *Store) Append(record VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	for _, existing := range records {
		if existing.VideoID == record.VideoID {
			return nil
		}
	}

	normalize(&record)
	return s.save(append(records, record))
}

// Has reports whether a record with the given video ID exists.
func (s *Store) Has(videoID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.VideoID == videoID {
			return true, nil
		}
	}
	return false, nil
}

// SetThumbnail updates the thumbnail URL of an existing record.
func (s *Store) SetThumbnail(videoID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].VideoID == videoID {
			records[i].ThumbnailURL = url
			return s.save(records)
		}
	}
	return fmt.Errorf("video %s not found in catalog", videoID)
}

func normalize(r *VideoRecord) {
	if r.Chapters == nil {
		r.Chapters = []Chapter{}
	}
	r.Advice = r.Advice.Normalized()
}
