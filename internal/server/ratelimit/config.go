package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Path pattern; "*" matches one segment
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// DefaultConfig allows 300 requests a minute per client and tighter limits on
// endpoints that call the model.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    300,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// NewConfig builds a configuration where model-backed endpoints allow
// requestsPerSecond with the given burst. A non-positive rate disables limiting.
func NewConfig(requestsPerSecond float64, burst int, whitelist string) *Config {
	if requestsPerSecond <= 0 {
		return &Config{Enabled: false}
	}
	cfg := DefaultConfig()
	cfg.Whitelist = parseIPList(whitelist)

	perMinute := max(int(requestsPerSecond*60), 1)
	for i := range cfg.EndpointConfigs {
		cfg.EndpointConfigs[i].Limit = perMinute
		cfg.EndpointConfigs[i].Burst = burst
	}
	return cfg
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Question generation, answer evaluation and résumé analysis all reach the model
		{Path: "/interviews", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/interviews/*/answers", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/resumes/analyze", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/resumes/upload", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
