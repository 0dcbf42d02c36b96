package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vodcoach/internal/catalog"
	"vodcoach/internal/chat"
	"vodcoach/internal/gemini"
	"vodcoach/internal/storage"
	"vodcoach/internal/thumbnail"
	"vodcoach/internal/twelvelabs"
	"vodcoach/pkg/config"
	"vodcoach/pkg/prompts"
)

// BuildService assembles the full service from configuration. The index
// credentials are required; Gemini and the GCS mirror are optional and
// degrade to placeholder thumbnails and local-only storage.
func BuildService(ctx context.Context, cfg *config.Config) (*Service, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	if cfg.TwelveLabsAPIKey == "" || cfg.TwelveLabsIndexID == "" {
		return nil, fmt.Errorf("TWELVELABS_API_KEY and TWELVELABS_INDEX_ID must be set")
	}
	index := twelvelabs.NewClient(cfg.TwelveLabsAPIKey, cfg.TwelveLabsIndexID)

	uploads := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err := uploads.EnsureDirectories(); err != nil {
		return nil, err
	}

	var imageGen thumbnail.ImageGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		imageGen = client
	} else {
		slog.Warn("GEMINI_API_KEY not set, thumbnails will use the placeholder")
	}

	thumbs := thumbnail.NewGenerator(imageGen, uploads, p, thumbnail.Options{
		BaseURL:        cfg.Server.BaseURL,
		PlaceholderURL: cfg.Thumbnail.PlaceholderURL,
		Size:           cfg.Thumbnail.Size,
	})

	var mirror *storage.GCSMirror
	if cfg.GCS.Enabled && cfg.GCSBucket != "" {
		mirror, err = storage.NewGCSMirror(ctx, cfg.GCSBucket, cfg.GCS.Prefix)
		if err != nil {
			return nil, err
		}
	}

	sessions := chat.NewSessionStore(time.Duration(cfg.Chat.SessionTTL) * time.Second)

	return NewService(ServiceOptions{
		Config:   cfg,
		Index:    index,
		Thumbs:   thumbs,
		Store:    catalog.NewStore(cfg.Catalog.Path),
		Uploads:  uploads,
		Mirror:   mirror,
		Chat:     chat.NewManager(index, sessions, p),
		Sessions: sessions,
		Prompts:  p,
	}), nil
}
