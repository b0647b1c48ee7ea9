package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" makes it a prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Unlimited reports whether the endpoint is exempt from limiting.
func (c *EndpointConfig) Unlimited() bool {
	return c.Limit <= 0 || c.Window <= 0
}

// Capacity is the bucket size.
func (c *EndpointConfig) Capacity() int {
	if c.Burst > 0 {
		return c.Burst
	}
	return c.Limit
}

// Rate is the refill rate in tokens per second.
func (c *EndpointConfig) Rate() float64 {
	return float64(c.Limit) / c.Window.Seconds()
}

// Key identifies the bucket family. Prefix configs share one bucket across
// all paths they match.
func (c *EndpointConfig) Key(path string) string {
	if c.Path != "" && strings.HasSuffix(c.Path, "/") {
		return c.Path
	}
	return path
}

// unlimitedPaths are never throttled.
var unlimitedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact matches win over prefix matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && unlimitedPaths[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
