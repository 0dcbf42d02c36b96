package httputil

import (
	"errors"
	"math/rand"
	"net"
	"net/http"
	"time"
)

type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// RetryClient retries transient failures: network timeouts, 429 and 5xx.
// The request must carry GetBody for its body to survive a retry.
type RetryClient struct {
	client *http.Client
	config RetryConfig
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

func NewRetryClient(client *http.Client, config RetryConfig) *RetryClient {
	if client == nil {
		client = http.DefaultClient
	}

	defaults := DefaultRetryConfig()
	if config.MaxRetries == 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.InitialDelay == 0 {
		config.InitialDelay = defaults.InitialDelay
	}
	if config.MaxDelay == 0 {
		config.MaxDelay = defaults.MaxDelay
	}
	if config.Multiplier == 0 {
		config.Multiplier = defaults.Multiplier
	}

	return &RetryClient{
		client: client,
		config: config,
	}
}

func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	delay := c.config.InitialDelay

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, bodyErr
				}
				req.Body = body
			}

			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(applyJitter(delay)):
			}
			delay = min(time.Duration(float64(delay)*c.config.Multiplier), c.config.MaxDelay)
		}

		resp, err = c.client.Do(req)
		if !shouldRetry(resp, err) {
			return resp, err
		}

		// Keep the last response readable for the caller once retries
		// are exhausted.
		if resp != nil && attempt < c.config.MaxRetries {
			_ = resp.Body.Close()
		}
	}

	return resp, err
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return true
		}
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			return true
		}
		var dnsErr *net.DNSError
		return errors.As(err, &dnsErr)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}

	return resp.StatusCode >= 500 && resp.StatusCode < 600
}

func applyJitter(delay time.Duration) time.Duration {
	jitterFactor := 0.9 + rand.Float64()*0.2
	return time.Duration(float64(delay) * jitterFactor)
}
