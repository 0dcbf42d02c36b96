// Package server exposes the HTTP API consumed by the web client.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"vodcoach/internal/app"
)

type Server struct {
	echo *echo.Echo
	svc  *app.Service
}

func New(svc *app.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{svc.Config().Server.ClientOrigin},
	}))

	s := &Server{echo: e, svc: svc}

	e.POST("/api/upload", s.handleUpload)
	e.GET("/api/videos", s.handleVideos)
	e.POST("/api/chat", s.handleChat)
	e.POST("/api/generate-image", s.handleGenerateImage)
	e.Static("/uploads", svc.Uploads().Dir())

	return s
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
