// Package server provides the HTTP API for the career advisor.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-compass/internal/facade"
	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/server/ratelimit"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	facade      *facade.Facade
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	corsOrigin  string
}

// Config holds server configuration
type Config struct {
	Port       int
	CORSOrigin string
}

// Option configures a Server.
type Option func(*Server)

// WithJWT requires bearer tokens issued by service on /api routes.
func WithJWT(service *JWTService) Option {
	return func(s *Server) {
		s.jwtService = service
	}
}

// WithRateLimiter replaces the limiter built from RATE_LIMIT_* variables.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(s *Server) {
		s.rateLimiter = limiter
	}
}

// New creates a server serving f.
func New(cfg Config, f *facade.Facade, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		facade:     f,
		logger:     logger,
		corsOrigin: cfg.CORSOrigin,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      180 * time.Second, // model calls can take up to two minutes
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Proxy endpoints
	mux.HandleFunc("GET /api", s.handleAPIPing)
	mux.HandleFunc("POST /api", s.handleAnalyze)
	mux.HandleFunc("GET /api/job/{role}", s.handleJobListings)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/cache/stats", s.handleCacheStats)

	// Assessment endpoints
	mux.HandleFunc("POST /api/assessments", s.handleSubmitAssessment)
	mux.HandleFunc("DELETE /api/assessments", s.handleRetakeAssessment)
	mux.HandleFunc("GET /api/assessments/history", s.handleAssessmentHistory)
	mux.HandleFunc("GET /api/assessments/draft", s.handleLoadDraft)
	mux.HandleFunc("PUT /api/assessments/draft", s.handleSaveDraft)

	// Chat endpoints
	mux.HandleFunc("POST /api/chat", s.handleSendMessage)
	mux.HandleFunc("GET /api/chat/history/{id}", s.handleChatHistory)
	mux.HandleFunc("DELETE /api/chat/history/{id}", s.handleClearChatHistory)

	// Dashboard endpoints
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/dashboard/bundle", s.handleDashboardBundle)

	// Career, resource and job bookmarks
	mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)
	mux.HandleFunc("GET /api/careers/saved", s.handleSavedCareers)
	mux.HandleFunc("GET /api/careers/{id}", s.handleCareerDetails)
	mux.HandleFunc("GET /api/careers/{id}/resources", s.handleCareerResources)
	mux.HandleFunc("POST /api/careers/{id}/save", s.handleSaveCareer)
	mux.HandleFunc("GET /api/resources/saved", s.handleSavedResources)
	mux.HandleFunc("POST /api/resources/{id}/save", s.handleSaveResource)
	mux.HandleFunc("GET /api/jobs/saved", s.handleSavedJobs)
	mux.HandleFunc("POST /api/jobs/{id}/save", s.handleSaveJob)

	return s.withLogging(s.withCORS(s.withOwner(s.withRateLimit(mux))))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
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

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers for the configured frontend origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.ClientIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withOwner resolves the request owner from a bearer token when tokens are
// configured, otherwise from the client id header.
func (s *Server) withOwner(next http.Handler) http.Handler {
	var resolve func(http.Handler) http.Handler = middleware.ClientIDMiddleware
	if s.jwtService != nil {
		resolve = middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	}
	guarded := resolve(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		guarded.ServeHTTP(w, r)
	})
}

// withRateLimit limits requests per owner, or per IP for anonymous callers.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := middleware.Owner(r)
		if clientID == middleware.AnonymousOwner {
			clientID = extractIP(r)
		}

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := zap.InfoLevel
		if rec.status >= http.StatusInternalServerError {
			level = zap.ErrorLevel
		}
		s.logger.Check(level, "request").Write(
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes err with the status HTTPStatus assigns to it.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("owner", middleware.Owner(r)),
			zap.Error(err),
		)
	}
	s.jsonResponse(w, status, errorBody(err, status))
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrBadRequest{Message: "invalid JSON body"}
	}
	return nil
}

// extractIP returns the host part of RemoteAddr.
func extractIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.Int("limit", info.Limit),
		zap.Int("retry_after_seconds", retryAfter),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate limit exceeded, please try again later",
		"retryable":   true,
		"retry_after": retryAfter,
	})
}
