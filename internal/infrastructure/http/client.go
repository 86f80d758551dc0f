package infrastructure

import (
	"crypto/tls"
	"net/http"
	"time"

	"auto_sort_vimeo/config"
)

// HTTPClient provides an HTTP client with connection pooling tuned for
// polling a single API host
type HTTPClient struct {
	client *http.Client
	config *config.Config
}

// NewHTTPClient creates a new pooled HTTP client
func NewHTTPClient(cfg *config.Config) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},
		DisableKeepAlives: false,
		ForceAttemptHTTP2: true,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.HTTPClientTimeout,
	}

	return &HTTPClient{
		client: client,
		config: cfg,
	}
}

// Do performs a custom HTTP request
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// GetClient returns the underlying HTTP client
func (c *HTTPClient) GetClient() *http.Client {
	return c.client
}
