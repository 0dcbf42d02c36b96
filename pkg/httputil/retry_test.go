package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetryClientRetriesTransientStatuses(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		failures     int32
		wantAttempts int32
	}{
		{name: "serviceUnavailable", status: http.StatusServiceUnavailable, failures: 2, wantAttempts: 3},
		{name: "tooManyRequests", status: http.StatusTooManyRequests, failures: 1, wantAttempts: 2},
		{name: "internalError", status: http.StatusInternalServerError, failures: 1, wantAttempts: 2},
		{name: "badGateway", status: http.StatusBadGateway, failures: 1, wantAttempts: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&attempts, 1) <= tt.failures {
					w.WriteHeader(tt.status)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := NewRetryClient(server.Client(), fastConfig())
			req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

			resp, err := client.Do(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, want 200", resp.StatusCode)
			}
			if got := atomic.LoadInt32(&attempts); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}
		})
	}
}

func TestRetryClientDoesNotRetryClientErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(status)
		}))

		client := NewRetryClient(server.Client(), fastConfig())
		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_ = resp.Body.Close()

		if resp.StatusCode != status {
			t.Errorf("status = %d, want %d", resp.StatusCode, status)
		}
		if got := atomic.LoadInt32(&attempts); got != 1 {
			t.Errorf("status %d: attempts = %d, want 1", status, got)
		}
		server.Close()
	}
}

func TestRetryClientRespectsMaxRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := fastConfig()
	cfg.MaxRetries = 2
	client := NewRetryClient(server.Client(), cfg)

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", got)
	}
}

func TestRetryClientExhaustedRetriesKeepsBodyReadable(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "index exploded"}`))
	}))
	defer server.Close()

	cfg := fastConfig()
	cfg.MaxRetries = 2
	client := NewRetryClient(server.Client(), cfg)

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		t.Fatalf("final response body not readable: %v", readErr)
	}
	if !strings.Contains(string(body), "index exploded") {
		t.Errorf("body = %q, want upstream error message", body)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestRetryClientResendsRequestBody(t *testing.T) {
	var attempts int32
	var receivedBodies []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		receivedBodies = append(receivedBodies, string(body))
		if atomic.AddInt32(&attempts, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewRetryClient(server.Client(), fastConfig())

	bodyContent := "test body content"
	req, _ := http.NewRequest(http.MethodPost, server.URL, strings.NewReader(bodyContent))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(bodyContent)), nil
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	for i, body := range receivedBodies {
		if body != bodyContent {
			t.Errorf("attempt %d: body = %q, want %q", i+1, body, bodyContent)
		}
	}
}

func TestRetryClientStopsOnCanceledContext(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := fastConfig()
	cfg.InitialDelay = time.Second
	client := NewRetryClient(server.Client(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if _, err := client.Do(req); err == nil {
		t.Error("expected context error, got nil")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestNewRetryClientAppliesDefaults(t *testing.T) {
	client := NewRetryClient(nil, RetryConfig{})

	if client.client != http.DefaultClient {
		t.Error("expected http.DefaultClient when nil is passed")
	}
	if client.config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", client.config.MaxRetries)
	}
	if client.config.InitialDelay != 500*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 500ms", client.config.InitialDelay)
	}
	if client.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", client.config.Multiplier)
	}
}
