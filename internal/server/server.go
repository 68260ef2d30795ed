// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/logger"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
)

// maxJSONBody bounds JSON request bodies
const maxJSONBody = 1 << 20

// DocumentSource extracts text from a stored object, e.g. ingestion.ObjectSource
type DocumentSource interface {
	Extract(ctx context.Context, key string) (*ingestion.Document, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	manager     *interview.Manager
	rateLimiter *ratelimit.Limiter
	objects     DocumentSource
	fetch       *ingestion.FetchOptions
	log         *zap.Logger
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Port int
	// RateLimit defaults to ratelimit.DefaultConfig when nil
	RateLimit *ratelimit.Config
	// Objects enables object_key uploads; optional
	Objects DocumentSource
	// Fetch configures job_url downloads. When nil the defaults apply with
	// private and loopback targets blocked.
	Fetch *ingestion.FetchOptions
}

// New creates a new server instance
func New(cfg Config, manager *interview.Manager, log *zap.Logger) *Server {
	if cfg.Fetch == nil {
		cfg.Fetch = ingestion.DefaultFetchOptions()
		cfg.Fetch.BlockPrivate = true
	}
	s := &Server{
		manager:     manager,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		objects:     cfg.Objects,
		fetch:       cfg.Fetch,
		log:         logger.OrNop(log),
		now:         time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Interview sessions
	mux.HandleFunc("GET /interviews", s.handleListInterviews)
	mux.HandleFunc("POST /interviews", s.handleCreateInterview)
	mux.HandleFunc("GET /interviews/stats", s.handleInterviewStats)
	mux.HandleFunc("GET /interviews/{id}", s.handleGetInterview)
	mux.HandleFunc("DELETE /interviews/{id}", s.handleDeleteInterview)
	mux.HandleFunc("POST /interviews/{id}/start", s.handleStartInterview)
	mux.HandleFunc("POST /interviews/{id}/abandon", s.handleAbandonInterview)
	mux.HandleFunc("GET /interviews/{id}/question", s.handleCurrentQuestion)
	mux.HandleFunc("POST /interviews/{id}/answers", s.handleSubmitAnswer)
	mux.HandleFunc("GET /interviews/{id}/results", s.handleResults)

	// Résumés
	mux.HandleFunc("POST /resumes/analyze", s.handleAnalyzeResume)
	mux.HandleFunc("POST /resumes/upload", s.handleUploadResume)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // answers wait on evaluation and final feedback
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("encoding JSON response failed", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body into v, writing a 400 on failure
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// extractClientID returns the remote IP. X-Forwarded-For is ignored since
// there is no trusted proxy list.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.log.Warn("rate limit exceeded", zap.Int("limit", info.Limit), zap.Time("reset", info.ResetTime))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
