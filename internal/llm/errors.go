package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GatewayFailure represents a completion call that produced no usable text
type GatewayFailure struct {
	Provider  Provider
	Model     string
	Message   string
	Transient bool
	Cause     error
}

func (e *GatewayFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s completion failed (%s): %s: %v", e.Provider, e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s completion failed (%s): %s", e.Provider, e.Model, e.Message)
}

func (e *GatewayFailure) Unwrap() error {
	return e.Cause
}

func newGatewayFailure(provider Provider, model, message string, cause error) *GatewayFailure {
	return &GatewayFailure{
		Provider:  provider,
		Model:     model,
		Message:   message,
		Transient: cause == nil || IsTransient(cause),
		Cause:     cause,
	}
}

// ErrOffline is returned by the offline client for every call
var ErrOffline = errors.New("completion gateway is offline")

// IsTransient reports whether a failed call is worth retrying.
// Rate limits, timeouts and server errors are transient; other API errors
// (bad key, invalid argument) are not. Unknown errors are treated as transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOffline) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var gw *GatewayFailure
	if errors.As(err, &gw) {
		return gw.Transient
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return transientStatus(genaiErr.Code)
	}
	var genaiPtr *genai.APIError
	if errors.As(err, &genaiPtr) && genaiPtr != nil {
		return transientStatus(genaiPtr.Code)
	}

	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return transientStatus(googleErr.Code)
	}

	return true
}

// IsUnreachable reports whether err shows the gateway cannot be reached at all:
// the offline client, a failed dial or DNS lookup, or rejected credentials.
// Timeouts, rate limits, server errors and empty responses mean the gateway
// answered, so they are not unreachable.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOffline) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return authStatus(genaiErr.Code)
	}
	var genaiPtr *genai.APIError
	if errors.As(err, &genaiPtr) && genaiPtr != nil {
		return authStatus(genaiPtr.Code)
	}
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return authStatus(googleErr.Code)
	}
	return false
}

func authStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

func transientStatus(code int) bool {
	switch {
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return true
	case code >= http.StatusInternalServerError:
		return true
	case code >= http.StatusBadRequest:
		return false
	default:
		return true
	}
}
