// Package server exposes the transfer operations over HTTP: accepting
// uploads, listing stored files, and serving payloads back by name.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"filestash/internal/store"
)

// BuildInfo identifies the running binary in health output and logs.
type BuildInfo struct {
	Version string
	Commit  string
}

type Config struct {
	Addr string // e.g. ":8080"

	// AllowedOrigin is the single cross-origin caller permitted by the
	// CORS middleware. "*" allows any origin.
	AllowedOrigin string

	// MaxUploadBytes caps the request body on the upload endpoint. The
	// decoded payload is necessarily smaller than the encoded body, so
	// this also bounds decode memory.
	MaxUploadBytes int64

	Build BuildInfo
}

type Server struct {
	httpServer *http.Server
	store      store.Store
	metrics    *Metrics
	logger     *Logger
	cfg        Config
}

// New builds the HTTP server around an explicitly injected Store; the
// handlers hold no state of their own beyond metrics counters.
func New(cfg Config, st store.Store, logger *Logger) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if logger == nil {
		logger = DefaultLogger
	}

	s := &Server{
		store:   st,
		metrics: NewMetrics(),
		logger:  logger,
		cfg:     cfg,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(corsMiddleware(cfg.AllowedOrigin))

	r.Post("/file-upload", s.handleUpload)
	r.Get("/get-files", s.handleList)
	r.Get("/download/{name}", s.handleDownload)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/live", s.handleLive)
	r.Get("/metrics", s.handleMetrics)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler exposes the routed handler for tests driving the server
// through httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
