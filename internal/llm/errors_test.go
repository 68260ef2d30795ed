package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"offline", ErrOffline, false},
		{"wrapped offline", fmt.Errorf("call: %w", ErrOffline), false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"genai rate limit", genai.APIError{Code: http.StatusTooManyRequests}, true},
		{"genai bad request", genai.APIError{Code: http.StatusBadRequest}, false},
		{"genai pointer unavailable", &genai.APIError{Code: http.StatusServiceUnavailable}, true},
		{"googleapi forbidden", &googleapi.Error{Code: http.StatusForbidden}, false},
		{"googleapi internal", &googleapi.Error{Code: http.StatusInternalServerError}, true},
		{"unknown", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsUnreachable(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"offline", newGatewayFailure(ProviderOffline, "m", "offline", ErrOffline), true},
		{"dial refused", &url.Error{Op: "Post", URL: "https://example.invalid", Err: dial}, true},
		{"dns", &net.DNSError{Err: "no such host", Name: "example.invalid", IsNotFound: true}, true},
		{"bad key", &googleapi.Error{Code: http.StatusUnauthorized}, true},
		{"genai forbidden", genai.APIError{Code: http.StatusForbidden}, true},
		{"deadline", context.DeadlineExceeded, false},
		{"wrapped deadline", newGatewayFailure(ProviderGemini, "m", "failed to generate content", context.DeadlineExceeded), false},
		{"rate limit", &googleapi.Error{Code: http.StatusTooManyRequests}, false},
		{"server error", &genai.APIError{Code: http.StatusServiceUnavailable}, false},
		{"empty response", newGatewayFailure(ProviderGenAI, "m", "empty response", nil), false},
		{"read reset", &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}, false},
		{"unknown", errors.New("something odd"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnreachable(tt.err))
		})
	}
}

func TestGatewayFailure(t *testing.T) {
	cause := &googleapi.Error{Code: http.StatusUnauthorized, Message: "bad key"}
	err := newGatewayFailure(ProviderGemini, "gemini-2.5-flash", "failed to generate content", cause)

	assert.False(t, err.Transient)
	assert.False(t, IsTransient(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gemini-2.5-flash")
	assert.Contains(t, err.Error(), "failed to generate content")

	empty := newGatewayFailure(ProviderGenAI, "m", "empty response", nil)
	assert.True(t, empty.Transient)
	assert.Nil(t, errors.Unwrap(empty))

	var gw *GatewayFailure
	wrapped := fmt.Errorf("attempt 2: %w", empty)
	assert.True(t, errors.As(wrapped, &gw))
	assert.Equal(t, ProviderGenAI, gw.Provider)
}
