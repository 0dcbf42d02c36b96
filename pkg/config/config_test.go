package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	orig, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(orig) })
	_ = os.Chdir(tmp)
	return tmp
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Index.PollInterval != 10 {
		t.Errorf("Index.PollInterval = %d, want 10", cfg.Index.PollInterval)
	}
	if cfg.Index.Timeout != 600 {
		t.Errorf("Index.Timeout = %d, want 600", cfg.Index.Timeout)
	}
	if cfg.Uploads.Dir != "uploads" {
		t.Errorf("Uploads.Dir = %q, want uploads", cfg.Uploads.Dir)
	}
	if cfg.Catalog.Path != "videos.json" {
		t.Errorf("Catalog.Path = %q, want videos.json", cfg.Catalog.Path)
	}
	if cfg.Thumbnail.Size != 400 {
		t.Errorf("Thumbnail.Size = %d, want 400", cfg.Thumbnail.Size)
	}
	if cfg.Thumbnail.PlaceholderURL == "" {
		t.Error("Thumbnail.PlaceholderURL should have a default")
	}
	if cfg.Chat.SessionTTL != 0 {
		t.Errorf("Chat.SessionTTL = %d, want 0", cfg.Chat.SessionTTL)
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmp := chdirTemp(t)

	yaml := `
server:
  port: 8080
  base_url: "http://example.com"
index:
  poll_interval: 5
  timeout: 120
chat:
  session_ttl: 3600
gcs:
  enabled: true
  prefix: media
`
	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte(yaml), 0644)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "http://example.com" {
		t.Errorf("Server.BaseURL = %q, want http://example.com", cfg.Server.BaseURL)
	}
	if cfg.Index.PollInterval != 5 {
		t.Errorf("Index.PollInterval = %d, want 5", cfg.Index.PollInterval)
	}
	if cfg.Index.Timeout != 120 {
		t.Errorf("Index.Timeout = %d, want 120", cfg.Index.Timeout)
	}
	if cfg.Chat.SessionTTL != 3600 {
		t.Errorf("Chat.SessionTTL = %d, want 3600", cfg.Chat.SessionTTL)
	}
	if !cfg.GCS.Enabled {
		t.Error("GCS.Enabled = false, want true")
	}
	if cfg.GCS.Prefix != "media" {
		t.Errorf("GCS.Prefix = %q, want media", cfg.GCS.Prefix)
	}
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)

	t.Setenv("TWELVELABS_API_KEY", "tl-key")
	t.Setenv("TWELVELABS_INDEX_ID", "idx-123")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("GCS_BUCKET", "my-bucket")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.TwelveLabsAPIKey != "tl-key" {
		t.Errorf("TwelveLabsAPIKey = %q, want tl-key", cfg.TwelveLabsAPIKey)
	}
	if cfg.TwelveLabsIndexID != "idx-123" {
		t.Errorf("TwelveLabsIndexID = %q, want idx-123", cfg.TwelveLabsIndexID)
	}
	if cfg.GeminiAPIKey != "gm-key" {
		t.Errorf("GeminiAPIKey = %q, want gm-key", cfg.GeminiAPIKey)
	}
	if cfg.GCSBucket != "my-bucket" {
		t.Errorf("GCSBucket = %q, want my-bucket", cfg.GCSBucket)
	}
}

func TestLoadMalformedYAMLKeepsDefaults(t *testing.T) {
	tmp := chdirTemp(t)

	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("server: ["), 0644)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want default 5000", cfg.Server.Port)
	}
}
