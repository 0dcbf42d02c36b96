package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"vodcoach/internal/app"
	"vodcoach/internal/chat"
)

const requirementsHint = "Ensure your video meets requirements (360p-4K, 4s-60min, <2GB, audio track)."

type chatRequest struct {
	VideoID string `json:"video_id"`
	Message string `json:"message"`
	Summary string `json:"summary"`
}

type chatResponse struct {
	Response string          `json:"response"`
	History  []chat.Exchange `json:"history"`
}

type generateImageRequest struct {
	VideoID string `json:"video_id"`
	Summary string `json:"summary"`
}

type generateImageResponse struct {
	ImageURL string  `json:"image_url"`
	Error    *string `json:"error"`
}

func (s *Server) handleUpload(c echo.Context) error {
	var src app.IngestSource

	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		defer func() { _ = f.Close() }()
		src = app.IngestSource{Filename: fileHeader.Filename, File: f}
	} else if url := c.FormValue("url"); url != "" {
		src = app.IngestSource{URL: url}
	} else {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file or URL provided"})
	}

	record, err := s.svc.Ingest(c.Request().Context(), src)
	if err != nil {
		slog.Error("Upload failed", "error", err)

		if errors.Is(err, app.ErrIndexTimeout) {
			return c.JSON(http.StatusGatewayTimeout, echo.Map{
				"error": "Indexing timed out. Video uploaded to Twelve Labs, please check dashboard.",
			})
		}
		var jobErr *app.JobFailedError
		if errors.As(err, &jobErr) {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": fmt.Sprintf("Indexing failed with status %s. %s", jobErr.Status, requirementsHint),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": fmt.Sprintf("%s. %s", err.Error(), requirementsHint),
		})
	}

	return c.JSON(http.StatusOK, record)
}

func (s *Server) handleVideos(c echo.Context) error {
	if _, err := s.svc.SyncCatalog(c.Request().Context()); err != nil {
		slog.Warn("Failed to sync catalog with index", "error", err)
	}

	records, err := s.svc.Catalog().Load()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, records)
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil || req.VideoID == "" || req.Message == "" || req.Summary == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing video_id, message, or summary"})
	}

	reply, history, err := s.svc.Chat().Send(c.Request().Context(), req.VideoID, req.Message, req.Summary)
	if err != nil {
		slog.Error("Chat failed", "video_id", req.VideoID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Chat error: " + err.Error()})
	}

	return c.JSON(http.StatusOK, chatResponse{Response: reply, History: history})
}

func (s *Server) handleGenerateImage(c echo.Context) error {
	var req generateImageRequest
	if err := c.Bind(&req); err != nil || req.VideoID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing video_id"})
	}
	if req.Summary == "" {
		req.Summary = "gameplay highlights"
	}

	url, genErr := s.svc.Thumbnails().Generate(c.Request().Context(), req.VideoID, req.Summary)
	if genErr != nil {
		slog.Warn("Failed to regenerate thumbnail", "video_id", req.VideoID, "error", genErr)
	}

	if err := s.svc.Catalog().SetThumbnail(req.VideoID, url); err != nil {
		slog.Warn("Failed to update catalog thumbnail", "video_id", req.VideoID, "error", err)
	}

	resp := generateImageResponse{ImageURL: url}
	if genErr != nil {
		msg := genErr.Error()
		resp.Error = &msg
	}
	return c.JSON(http.StatusOK, resp)
}
