// Package app wires the video index, thumbnail generation, catalog and
// chat sessions into the ingestion pipeline behind the HTTP API.
package app

import (
	"context"
	"io"

	"vodcoach/internal/catalog"
	"vodcoach/internal/chat"
	"vodcoach/internal/storage"
	"vodcoach/internal/thumbnail"
	"vodcoach/internal/twelvelabs"
	"vodcoach/pkg/config"
	"vodcoach/pkg/prompts"
)

// Indexer is the video understanding API surface the service needs.
type Indexer interface {
	CreateFileTask(ctx context.Context, filename string, file io.Reader) (twelvelabs.Task, error)
	CreateURLTask(ctx context.Context, videoURL string) (twelvelabs.Task, error)
	GetTask(ctx context.Context, taskID string) (twelvelabs.Task, error)
	Analyze(ctx context.Context, videoID, prompt string) (string, error)
	Summarize(ctx context.Context, videoID string) (string, error)
	Chapters(ctx context.Context, videoID string) ([]twelvelabs.Chapter, error)
	ListVideos(ctx context.Context) ([]twelvelabs.IndexVideo, error)
}

type Service struct {
	cfg      *config.Config
	index    Indexer
	thumbs   *thumbnail.Generator
	store    *catalog.Store
	uploads  *storage.LocalStorage
	mirror   *storage.GCSMirror
	chat     *chat.Manager
	sessions *chat.SessionStore
	prompts  *prompts.Prompts
}

type ServiceOptions struct {
	Config   *config.Config
	Index    Indexer
	Thumbs   *thumbnail.Generator
	Store    *catalog.Store
	Uploads  *storage.LocalStorage
	Mirror   *storage.GCSMirror
	Chat     *chat.Manager
	Sessions *chat.SessionStore
	Prompts  *prompts.Prompts
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:      opts.Config,
		index:    opts.Index,
		thumbs:   opts.Thumbs,
		store:    opts.Store,
		uploads:  opts.Uploads,
		mirror:   opts.Mirror,
		chat:     opts.Chat,
		sessions: opts.Sessions,
		prompts:  opts.Prompts,
	}
}

func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) Catalog() *catalog.Store {
	return s.store
}

func (s *Service) Uploads() *storage.LocalStorage {
	return s.uploads
}

func (s *Service) Mirror() *storage.GCSMirror {
	return s.mirror
}

func (s *Service) Chat() *chat.Manager {
	return s.chat
}

func (s *Service) Thumbnails() *thumbnail.Generator {
	return s.thumbs
}
