package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"vodcoach/internal/advice"
	"vodcoach/internal/catalog"
	"vodcoach/internal/twelvelabs"
)

// ErrIndexTimeout means the indexing job outlived the configured wait.
// The video stays in the index and can be picked up by a catalog sync.
var ErrIndexTimeout = errors.New("indexing timed out")

// JobFailedError means the indexing job reached a terminal state other
// than ready.
type JobFailedError struct {
	Status string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("indexing failed with status %s", e.Status)
}

// IngestSource is one video to process, either an uploaded file or a
// public URL. Exactly one of File and URL is set.
type IngestSource struct {
	Filename string
	File     io.Reader
	URL      string
}

// Ingest runs the full pipeline for one video: store the upload, index
// it, gather AI artifacts and append the catalog record. Artifact
// failures degrade to fallbacks; only storage, indexing and catalog
// errors abort.
func (s *Service) Ingest(ctx context.Context, src IngestSource) (catalog.VideoRecord, error) {
	var (
		task      twelvelabs.Task
		videoPath string
		err       error
	)

	if src.File != nil {
		videoPath, err = s.uploads.SaveUpload(src.Filename, src.File)
		if err != nil {
			return catalog.VideoRecord{}, err
		}

		f, err := os.Open(videoPath)
		if err != nil {
			return catalog.VideoRecord{}, fmt.Errorf("failed to reopen upload: %w", err)
		}
		task, err = s.index.CreateFileTask(ctx, src.Filename, f)
		_ = f.Close()
		if err != nil {
			return catalog.VideoRecord{}, err
		}

		// Display name is URL-escaped; the file on disk keeps the
		// original name.
		src.Filename = url.PathEscape(src.Filename)

		if s.mirror != nil {
			if err := s.mirror.Upload(ctx, videoPath); err != nil {
				slog.Warn("Failed to mirror upload", "path", videoPath, "error", err)
			}
		}
	} else {
		task, err = s.index.CreateURLTask(ctx, src.URL)
		if err != nil {
			return catalog.VideoRecord{}, err
		}
		videoPath = src.URL
		if src.Filename == "" {
			parts := strings.Split(src.URL, "/")
			src.Filename = parts[len(parts)-1]
		}
	}

	slog.Info("Indexing task created", "task_id", task.ID, "status", task.Status)

	task, err = s.awaitReady(ctx, task)
	if err != nil {
		return catalog.VideoRecord{}, err
	}

	slog.Info("Indexing complete", "task_id", task.ID, "video_id", task.VideoID)

	record := s.aggregate(ctx, task.VideoID, src.Filename, videoPath)
	if err := s.store.Append(record); err != nil {
		return catalog.VideoRecord{}, err
	}
	s.sessions.Init(task.VideoID)

	return record, nil
}

// awaitReady polls the task until it reaches a terminal state or the
// configured timeout elapses.
func (s *Service) awaitReady(ctx context.Context, task twelvelabs.Task) (twelvelabs.Task, error) {
	timeout := time.Duration(s.cfg.Index.Timeout) * time.Second
	interval := time.Duration(s.cfg.Index.PollInterval) * time.Second

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		current, err := s.index.GetTask(ctx, task.ID)
		if err != nil {
			if ctx.Err() != nil {
				return task, ErrIndexTimeout
			}
			return task, err
		}

		slog.Debug("Task status", "task_id", current.ID, "status", current.Status)

		if current.Terminal() {
			if current.Status != twelvelabs.StatusReady {
				return current, &JobFailedError{Status: current.Status}
			}
			return current, nil
		}

		select {
		case <-ctx.Done():
			return current, ErrIndexTimeout
		case <-ticker.C:
		}
	}
}

// aggregate collects advice, summary, chapters and a thumbnail for an
// indexed video. Each artifact fails independently.
func (s *Service) aggregate(ctx context.Context, videoID, filename, videoPath string) catalog.VideoRecord {
	record := catalog.VideoRecord{
		VideoID:   videoID,
		Filename:  filename,
		VideoPath: videoPath,
	}

	advicePrompt, err := s.prompts.RenderAdvice()
	if err != nil {
		slog.Warn("Failed to render advice prompt", "error", err)
		record.Advice = advice.Fallback()
	} else if raw, err := s.index.Analyze(ctx, videoID, advicePrompt); err != nil {
		slog.Warn("Failed to generate advice", "video_id", videoID, "error", err)
		record.Advice = advice.Fallback()
	} else {
		record.Advice = advice.Parse(raw)
	}

	record.Summary, err = s.index.Summarize(ctx, videoID)
	if err != nil {
		slog.Warn("Failed to generate summary", "video_id", videoID, "error", err)
		record.Summary = "Summary generation failed"
	}

	chapters, err := s.index.Chapters(ctx, videoID)
	if err != nil {
		slog.Warn("Failed to generate chapters", "video_id", videoID, "error", err)
	}
	for _, c := range chapters {
		record.Chapters = append(record.Chapters, catalog.Chapter{
			Number:  c.Number,
			Title:   c.Title,
			Summary: c.Summary,
			Start:   c.Start,
			End:     c.End,
		})
	}

	record.ThumbnailURL, err = s.thumbs.Generate(ctx, videoID, record.Summary)
	if err != nil {
		slog.Warn("Failed to generate thumbnail", "video_id", videoID, "error", err)
	}

	return record
}
