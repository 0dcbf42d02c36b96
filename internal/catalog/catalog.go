// Package catalog keeps the durable record of every processed video and
// the AI artifacts attached to it.
package catalog

import "vodcoach/internal/advice"

type Chapter struct {
	Number  int     `json:"chapter_number"`
	Title   string  `json:"chapter_title"`
	Summary string  `json:"chapter_summary"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

type VideoRecord struct {
	VideoID      string        `json:"video_id"`
	Filename     string        `json:"filename"`
	VideoPath    string        `json:"video_path"`
	Summary      string        `json:"summary"`
	Chapters     []Chapter     `json:"chapters"`
	Advice       advice.Advice `json:"advice"`
	ThumbnailURL string        `json:"thumbnail_url"`
}
