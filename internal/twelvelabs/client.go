// Package twelvelabs is a minimal client for the Twelve Labs video
// understanding API: indexing tasks, open-ended analysis and summaries.
package twelvelabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"vodcoach/pkg/httputil"
)

const (
	defaultBaseURL = "https://api.twelvelabs.io/v1.3"
	defaultTimeout = 5 * time.Minute
)

type Client struct {
	apiKey     string
	indexID    string
	httpClient *httputil.RetryClient
	baseURL    string
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewClient(apiKey, indexID string) *Client {
	return &Client{
		apiKey:  apiKey,
		indexID: indexID,
		httpClient: httputil.NewRetryClient(&http.Client{
			Timeout: defaultTimeout,
		}, httputil.DefaultRetryConfig()),
		baseURL: defaultBaseURL,
	}
}

// CreateFileTask uploads a local video file and starts indexing it.
func (c *Client) CreateFileTask(ctx context.Context, filename string, file io.Reader) (Task, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("index_id", c.indexID); err != nil {
		return Task{}, fmt.Errorf("failed to build form: %w", err)
	}
	part, err := writer.CreateFormFile("video_file", filename)
	if err != nil {
		return Task{}, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return Task{}, fmt.Errorf("failed to read video: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Task{}, fmt.Errorf("failed to build form: %w", err)
	}

	return c.createTask(ctx, &buf, writer.FormDataContentType())
}

// CreateURLTask starts indexing a video reachable at a public URL.
func (c *Client) CreateURLTask(ctx context.Context, videoURL string) (Task, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("index_id", c.indexID); err != nil {
		return Task{}, fmt.Errorf("failed to build form: %w", err)
	}
	if err := writer.WriteField("video_url", videoURL); err != nil {
		return Task{}, fmt.Errorf("failed to build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Task{}, fmt.Errorf("failed to build form: %w", err)
	}

	return c.createTask(ctx, &buf, writer.FormDataContentType())
}

func (c *Client) createTask(ctx context.Context, body *bytes.Buffer, contentType string) (Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks", body)
	if err != nil {
		return Task{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var task Task
	if err := c.do(req, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// GetTask fetches the current state of an indexing task.
func (c *Client) GetTask(ctx context.Context, taskID string) (Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tasks/"+taskID, nil)
	if err != nil {
		return Task{}, fmt.Errorf("failed to create request: %w", err)
	}

	var task Task
	if err := c.do(req, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// Analyze runs an open-ended prompt against an indexed video and returns
// the model's text.
func (c *Client) Analyze(ctx context.Context, videoID, prompt string) (string, error) {
	reqBody := map[string]any{
		"video_id": videoID,
		"prompt":   prompt,
		"stream":   false,
	}

	var result struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.postJSON(ctx, "/analyze", reqBody, &result); err != nil {
		return "", err
	}

	var text string
	if err := json.Unmarshal(result.Data, &text); err == nil {
		return text, nil
	}
	return string(result.Data), nil
}

// Summarize returns a prose summary of an indexed video.
func (c *Client) Summarize(ctx context.Context, videoID string) (string, error) {
	reqBody := map[string]any{
		"video_id": videoID,
		"type":     "summary",
	}

	var result struct {
		Summary string `json:"summary"`
	}
	if err := c.postJSON(ctx, "/summarize", reqBody, &result); err != nil {
		return "", err
	}
	return result.Summary, nil
}

// Chapters returns the chapter breakdown of an indexed video.
func (c *Client) Chapters(ctx context.Context, videoID string) ([]Chapter, error) {
	reqBody := map[string]any{
		"video_id": videoID,
		"type":     "chapter",
	}

	var result struct {
		Chapters []Chapter `json:"chapters"`
	}
	if err := c.postJSON(ctx, "/summarize", reqBody, &result); err != nil {
		return nil, err
	}
	return result.Chapters, nil
}

// ListVideos returns every video currently in the index, following
// pagination until the API runs out of pages.
func (c *Client) ListVideos(ctx context.Context) ([]IndexVideo, error) {
	var videos []IndexVideo

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/indexes/%s/videos?page=%d&page_limit=50", c.baseURL, c.indexID, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		var result struct {
			Data     []IndexVideo `json:"data"`
			PageInfo struct {
				Page      int `json:"page"`
				TotalPage int `json:"total_page"`
			} `json:"page_info"`
		}
		if err := c.do(req, &result); err != nil {
			return nil, err
		}

		videos = append(videos, result.Data...)
		if result.PageInfo.TotalPage == 0 || page >= result.PageInfo.TotalPage {
			return videos, nil
		}
	}
}

func (c *Client) postJSON(ctx context.Context, path string, reqBody, out any) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Message != "" {
			return fmt.Errorf("twelvelabs error: %s", errResp.Message)
		}
		return fmt.Errorf("twelvelabs error: %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
