package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath     = "config.yaml"
	defaultPort           = 5000
	defaultBaseURL        = "http://localhost:5000"
	defaultClientOrigin   = "http://localhost:5173"
	defaultUploadsDir     = "uploads"
	defaultCatalogPath    = "videos.json"
	defaultPollInterval   = 10
	defaultIndexTimeout   = 600
	defaultThumbnailSize  = 400
	defaultPlaceholderURL = "http://localhost:5173/placeholder.png"
	defaultGeminiModel    = "gemini-2.0-flash-preview-image-generation"
	defaultGCSPrefix      = "uploads"

	secretRefPrefix = "sm://"
)

type Config struct {
	TwelveLabsAPIKey  string
	TwelveLabsIndexID string
	GeminiAPIKey      string
	GCSBucket         string

	Server    ServerConfig    `yaml:"server"`
	Index     IndexConfig     `yaml:"index"`
	Uploads   UploadsConfig   `yaml:"uploads"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Chat      ChatConfig      `yaml:"chat"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	GCS       GCSConfig       `yaml:"gcs"`
}

type ServerConfig struct {
	Port         int    `yaml:"port"`
	BaseURL      string `yaml:"base_url"`
	ClientOrigin string `yaml:"client_origin"`
}

// IndexConfig controls how long an indexing job is polled. Both values are
// in seconds; Timeout bounds the total wall-clock wait.
type IndexConfig struct {
	PollInterval int `yaml:"poll_interval"`
	Timeout      int `yaml:"timeout"`
}

type UploadsConfig struct {
	Dir string `yaml:"dir"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

// ChatConfig.SessionTTL is the idle time in seconds before a chat session is
// evicted. Zero keeps sessions for the process lifetime.
type ChatConfig struct {
	SessionTTL int `yaml:"session_ttl"`
}

type ThumbnailConfig struct {
	Size           int    `yaml:"size"`
	PlaceholderURL string `yaml:"placeholder_url"`
}

type GeminiConfig struct {
	Model string `yaml:"model"`
}

type GCSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		TwelveLabsAPIKey:  os.Getenv("TWELVELABS_API_KEY"),
		TwelveLabsIndexID: os.Getenv("TWELVELABS_INDEX_ID"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GCSBucket:         os.Getenv("GCS_BUCKET"),
	}

	if err := resolveSecrets(ctx, cfg); err != nil {
		return nil, err
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// resolveSecrets replaces sm://projects/<p>/secrets/<name> values with the
// latest version stored in Secret Manager.
func resolveSecrets(ctx context.Context, cfg *Config) error {
	refs := []*string{
		&cfg.TwelveLabsAPIKey,
		&cfg.GeminiAPIKey,
	}

	var client *secretmanager.Client
	for _, ref := range refs {
		if !strings.HasPrefix(*ref, secretRefPrefix) {
			continue
		}

		if client == nil {
			var err error
			client, err = secretmanager.NewClient(ctx)
			if err != nil {
				return fmt.Errorf("create secret manager client: %w", err)
			}
			defer func() { _ = client.Close() }()
		}

		value, err := accessSecret(ctx, client, *ref)
		if err != nil {
			return err
		}
		*ref = value
	}

	return nil
}

func accessSecret(ctx context.Context, client *secretmanager.Client, ref string) (string, error) {
	name := strings.TrimPrefix(ref, secretRefPrefix)
	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}

	return string(resp.GetPayload().GetData()), nil
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(cfg)
	applyIndexDefaults(cfg)
	applyStorageDefaults(cfg)
	applyThumbnailDefaults(cfg)
	applyGeminiDefaults(cfg)
	applyGCSDefaults(cfg)
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = defaultBaseURL
	}
	if cfg.Server.ClientOrigin == "" {
		cfg.Server.ClientOrigin = defaultClientOrigin
	}
}

func applyIndexDefaults(cfg *Config) {
	if cfg.Index.PollInterval == 0 {
		cfg.Index.PollInterval = defaultPollInterval
	}
	if cfg.Index.Timeout == 0 {
		cfg.Index.Timeout = defaultIndexTimeout
	}
}

func applyStorageDefaults(cfg *Config) {
	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = defaultUploadsDir
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = defaultCatalogPath
	}
}

func applyThumbnailDefaults(cfg *Config) {
	if cfg.Thumbnail.Size == 0 {
		cfg.Thumbnail.Size = defaultThumbnailSize
	}
	if cfg.Thumbnail.PlaceholderURL == "" {
		cfg.Thumbnail.PlaceholderURL = defaultPlaceholderURL
	}
}

func applyGeminiDefaults(cfg *Config) {
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = defaultGeminiModel
	}
}

func applyGCSDefaults(cfg *Config) {
	if cfg.GCS.Prefix == "" {
		cfg.GCS.Prefix = defaultGCSPrefix
	}
}
