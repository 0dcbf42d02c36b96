package app

import (
	"context"
	"log/slog"

	"vodcoach/internal/catalog"
)

// SyncCatalog pulls videos that exist in the index but not in the
// catalog, typically uploaded through the provider dashboard or left
// behind by a timed-out ingest. It returns the number of records added.
func (s *Service) SyncCatalog(ctx context.Context) (int, error) {
	indexVideos, err := s.index.ListVideos(ctx)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, video := range indexVideos {
		known, err := s.store.Has(video.ID)
		if err != nil {
			return added, err
		}
		if known {
			continue
		}

		record := s.syncRecord(ctx, video.ID, video.Metadata.Filename, video.SourceURL)
		if err := s.store.Append(record); err != nil {
			return added, err
		}
		s.sessions.Init(video.ID)
		added++

		slog.Info("Synced video from index", "video_id", video.ID, "filename", record.Filename)
	}

	return added, nil
}

// syncRecord builds a catalog entry for a video discovered in the index.
// Unlike a fresh ingest, only summary and thumbnail are fetched; chapters
// and advice start empty.
func (s *Service) syncRecord(ctx context.Context, videoID, filename, sourceURL string) catalog.VideoRecord {
	if filename == "" {
		filename = "Unknown"
	}

	videoPath := sourceURL
	if videoPath == "" {
		videoPath = s.uploads.Path(filename)
	}

	summary, err := s.index.Summarize(ctx, videoID)
	if err != nil {
		slog.Warn("Failed to generate summary", "video_id", videoID, "error", err)
		summary = "Summary not generated"
	}

	thumbnailURL, err := s.thumbs.Generate(ctx, videoID, summary)
	if err != nil {
		slog.Warn("Failed to generate thumbnail", "video_id", videoID, "error", err)
	}

	return catalog.VideoRecord{
		VideoID:      videoID,
		Filename:     filename,
		VideoPath:    videoPath,
		Summary:      summary,
		ThumbnailURL: thumbnailURL,
	}
}
