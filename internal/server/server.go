// Package server exposes scoring, curve analysis and lexicon editing over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dotcommander/plotarc/internal/config"
	"github.com/dotcommander/plotarc/internal/curve"
	"github.com/dotcommander/plotarc/internal/lexicon"
	"github.com/dotcommander/plotarc/internal/live"
	"github.com/dotcommander/plotarc/internal/report"
)

// Server wraps the HTTP listener and the API handlers
type Server struct {
	settings config.ServerConfig
	lexicon  *lexicon.Service
	builder  *curve.Builder
	live     *live.Scorer
	archiver *report.Archiver
	logger   *slog.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

type Option func(*Server)

// WithArchiver enables ?save=true on /v1/curve
func WithArchiver(a *report.Archiver) Option {
	return func(s *Server) {
		s.archiver = a
	}
}

// WithLiveScorer overrides the default live scorer built from the builder
func WithLiveScorer(l *live.Scorer) Option {
	return func(s *Server) {
		if l != nil {
			s.live = l
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(settings config.ServerConfig, svc *lexicon.Service, builder *curve.Builder, opts ...Option) *Server {
	s := &Server{
		settings: settings,
		lexicon:  svc,
		builder:  builder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.live == nil {
		s.live = live.NewScorer(builder, live.WithLogger(s.logger))
	}
	if s.settings.MaxBodyBytes <= 0 {
		s.settings.MaxBodyBytes = config.DefaultServer().MaxBodyBytes
	}
	return s
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/score", s.handleScore)
	mux.HandleFunc("/v1/curve", s.handleCurve)
	mux.HandleFunc("/v1/lexicon", s.handleLexicon)
	mux.HandleFunc("/v1/lexicon/words", s.handleAddWord)
	mux.HandleFunc("/v1/lexicon/words/", s.handleRemoveWord)
	mux.HandleFunc("/v1/lexicon/reset", s.handleReset)
	mux.HandleFunc("/v1/lexicon/export", s.handleExport)
	mux.HandleFunc("/v1/lexicon/import", s.handleImport)
	mux.HandleFunc("/v1/sessions", s.handleSessions)
	mux.HandleFunc("/v1/sessions/", s.handleRemoveSession)
	return s.logRequests(mux)
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server already started")
	}

	listener, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.settings.Addr, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	srv := s.server
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", "error", err)
		}
	}()
	s.logger.Info("HTTP API listening", "addr", listener.Addr().String())
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	s.server, s.listener = nil, nil
	return err
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed")
	return false
}

// readBody reads at most MaxBodyBytes, answering the error itself
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "BadRequest", "empty body")
		return nil, false
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "PayloadTooLarge", "payload exceeds limit")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "BadRequest", "unable to read body")
		return nil, false
	}
	return body, true
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := s.readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", "invalid JSON: "+err.Error())
		return false
	}
	return true
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"lexicon_words": s.lexicon.Snapshot().Len(),
	})
}
