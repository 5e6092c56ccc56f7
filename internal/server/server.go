// Package server is the HTTP API surface for sitegauge.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mverbeek/sitegauge/internal/config"
	"github.com/mverbeek/sitegauge/internal/logging"
	"github.com/mverbeek/sitegauge/internal/model"
	"github.com/mverbeek/sitegauge/internal/ratelimit"
	"github.com/mverbeek/sitegauge/internal/scan"
	"github.com/mverbeek/sitegauge/internal/scanerr"
)

// Server routes scan requests into the pipeline.
type Server struct {
	cfg     *config.Config
	scanner *scan.Scanner
	router  chi.Router
	logger  logging.Logger
}

// New creates a Server with its own Scanner. httpClient is optional and
// mainly used by tests to point outbound fetches at a stub.
func New(cfg *config.Config, logger logging.Logger, httpClient *http.Client) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	s := &Server{
		cfg:     cfg,
		scanner: scan.New(cfg, logger, httpClient),
		router:  chi.NewRouter(),
		logger:  logger.With(logging.Field{Key: "component", Value: "server"}),
	}

	s.routes()
	return s
}

// Scanner returns the underlying scanner for advanced use (tests, sweeper).
func (s *Server) Scanner() *scan.Scanner { return s.scanner }

func (s *Server) routes() {
	r := s.router

	r.Use(requestIDMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(metricsMiddleware)

	r.Post("/scan", s.handleScan)
	r.Options("/scan", s.optionsHandler())
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorEnvelope(w, scanerr.New(scanerr.KindMethodNotAllowed, "method not allowed, use POST"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "NOT_FOUND",
			"message": "unknown endpoint",
		})
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newStatusWriter(w)
		next.ServeHTTP(rw, r)

		s.logger.Info("http_request",
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: "status", Value: rw.status},
			logging.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// --- Handlers ---

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req model.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorEnvelope(w, scanerr.New(scanerr.KindInvalidJSON, "request body is not valid JSON"))
		return
	}

	identity := ratelimit.Identity(r)

	payload, fromCache, err := s.scanner.Scan(r.Context(), req, identity)
	if err != nil {
		se := scanerr.From(err)
		s.logger.Warn("scan failed",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: se.Error()})
		writeErrorEnvelope(w, se)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"fromCache": fromCache,
		"data":      payload,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  "ok",
	})
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeErrorEnvelope serializes the flat error taxonomy: a stable code, a
// human-readable message and any extra detail fields, never a cause chain.
func writeErrorEnvelope(w http.ResponseWriter, se *scanerr.Error) {
	body := map[string]any{
		"success": false,
		"error":   string(se.Kind),
		"message": se.Message,
	}
	for k, v := range se.Details {
		body[k] = v
	}
	writeJSON(w, se.Kind.HTTPStatus(), body)
}
