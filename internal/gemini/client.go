// Package gemini generates thumbnail images through the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// GenerateImage asks the model for an image and returns the raw bytes of
// the first image part in the response.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			slog.Debug("image model returned text part", "text", part.Text)
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}

	return nil, fmt.Errorf("no image in response")
}
