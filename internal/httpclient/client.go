// Package httpclient provides the shared tuned HTTP client used by all
// external API clients in toolscout.
package httpclient

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default timeout for outbound requests.
	DefaultTimeout = 30 * time.Second

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
)

// Config configures an HTTP client.
type Config struct {
	// Timeout limits the total time for a request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// New creates an *http.Client with sensible transport limits for
// long-running pipeline processes that talk to a handful of hosts.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        defaultMaxIdleConns,
			MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
			IdleConnTimeout:     defaultIdleConnTimeout,
			TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
		},
	}
}

// Default returns a client with default settings.
func Default() *http.Client {
	return New(Config{})
}
