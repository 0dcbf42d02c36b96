// Package thumbnail turns video summaries into catalog thumbnails via an
// image generation model, resized to a fixed square.
package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	_ "image/jpeg"

	"golang.org/x/image/draw"

	"vodcoach/pkg/prompts"
)

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type Saver interface {
	SaveThumbnail(filename string, data []byte) (string, error)
}

// Generator produces a thumbnail for a video and returns its public URL.
// On any failure it returns the placeholder URL together with the error,
// so callers can log and keep going.
type Generator struct {
	gen            ImageGenerator
	store          Saver
	prompts        *prompts.Prompts
	baseURL        string
	placeholderURL string
	size           int
}

type Options struct {
	BaseURL        string
	PlaceholderURL string
	Size           int
}

func NewGenerator(gen ImageGenerator, store Saver, p *prompts.Prompts, opts Options) *Generator {
	return &Generator{
		gen:            gen,
		store:          store,
		prompts:        p,
		baseURL:        opts.BaseURL,
		placeholderURL: opts.PlaceholderURL,
		size:           opts.Size,
	}
}

func (g *Generator) Generate(ctx context.Context, videoID, summary string) (string, error) {
	if g.gen == nil {
		return g.placeholderURL, fmt.Errorf("image generation not configured")
	}

	prompt, err := g.prompts.RenderThumbnail(prompts.ThumbnailParams{Summary: summary, Size: g.size})
	if err != nil {
		return g.placeholderURL, fmt.Errorf("render prompt: %w", err)
	}

	raw, err := g.gen.GenerateImage(ctx, prompt)
	if err != nil {
		return g.placeholderURL, fmt.Errorf("generate image: %w", err)
	}

	resized, err := g.resize(raw)
	if err != nil {
		return g.placeholderURL, fmt.Errorf("resize image: %w", err)
	}

	filename := fmt.Sprintf("thumbnail_%s.png", videoID)
	if _, err := g.store.SaveThumbnail(filename, resized); err != nil {
		return g.placeholderURL, fmt.Errorf("save thumbnail: %w", err)
	}

	slog.Debug("thumbnail generated", "video_id", videoID, "filename", filename)
	return g.baseURL + "/uploads/" + filename, nil
}

// Placeholder returns the URL used when no thumbnail could be produced.
func (g *Generator) Placeholder() string {
	return g.placeholderURL
}

func (g *Generator) resize(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, g.size, g.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
