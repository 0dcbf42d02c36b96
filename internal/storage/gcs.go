package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSMirror copies uploads into a bucket so a wiped local disk can be
// repopulated from object storage.
type GCSMirror struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCSMirror(ctx context.Context, bucket, prefix string) (*GCSMirror, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSMirror{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (m *GCSMirror) Close() error {
	return m.client.Close()
}

// Upload copies a local file to the bucket under the mirror prefix.
func (m *GCSMirror) Upload(ctx context.Context, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	object := m.objectName(filepath.Base(localPath))
	w := m.client.Bucket(m.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload %s: %w", object, err)
	}

	return nil
}

// SyncDir uploads every local file the bucket does not already hold and
// returns the number uploaded.
func (m *GCSMirror) SyncDir(ctx context.Context, dir string) (int, error) {
	remote, err := m.listObjects(ctx)
	if err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory: %w", err)
	}

	uploaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if remote[m.objectName(entry.Name())] {
			continue
		}
		if err := m.Upload(ctx, filepath.Join(dir, entry.Name())); err != nil {
			return uploaded, err
		}
		uploaded++
	}

	return uploaded, nil
}

func (m *GCSMirror) listObjects(ctx context.Context) (map[string]bool, error) {
	objects := make(map[string]bool)

	it := m.client.Bucket(m.bucket).Objects(ctx, &gcs.Query{Prefix: m.prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		objects[attrs.Name] = true
	}

	return objects, nil
}

func (m *GCSMirror) objectName(filename string) string {
	if m.prefix == "" {
		return filename
	}
	return m.prefix + "/" + filename
}
