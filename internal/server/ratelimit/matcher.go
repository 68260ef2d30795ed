package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// A "*" segment in a configured path matches any single segment, so
// "/interviews/*/answers" covers every session.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// health checks are never limited
	if path == "/health" {
		return &EndpointConfig{Path: path}
	}

	segments := splitPath(path)
	for i := range configs {
		config := &configs[i]
		if config.Method == method && matchSegments(splitPath(config.Path), segments) {
			return config
		}
	}
	return nil
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, seg := range pattern {
		if seg != "*" && seg != segments[i] {
			return false
		}
	}
	return true
}
