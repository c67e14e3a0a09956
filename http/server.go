package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/pdfrules"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// DefaultMaxUploadSize is the largest accepted PDF upload.
const DefaultMaxUploadSize = 10 << 20

// shutdownTimeout bounds graceful shutdown in Serve.
const shutdownTimeout = 10 * time.Second

// Server exposes text extraction and stored extraction results over HTTP.
type Server struct {
	text           pdfrules.TextExtractor
	extractions    pdfrules.ExtractionService
	logger         *slog.Logger
	maxUploadSize  int64
	limiter        *ClientLimiter
	allowedOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to discarding output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxUploadSize sets the largest accepted upload in bytes.
// Defaults to DefaultMaxUploadSize (10 MiB).
func WithMaxUploadSize(n int64) Option {
	return func(s *Server) {
		s.maxUploadSize = n
	}
}

// WithClientLimiter rate limits uploads per client address.
func WithClientLimiter(l *ClientLimiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// WithAllowedOrigins sets the CORS origins. Defaults to any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// NewServer creates a new Server.
func NewServer(text pdfrules.TextExtractor, extractions pdfrules.ExtractionService, opts ...Option) *Server {
	s := &Server{
		text:           text,
		extractions:    extractions,
		logger:         slog.New(slog.DiscardHandler),
		maxUploadSize:  DefaultMaxUploadSize,
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped with CORS.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	upload := http.Handler(http.HandlerFunc(s.handleExtractText))
	if s.limiter != nil {
		upload = s.limiter.Middleware(upload)
	}
	api.Handle("/extract-text/", upload).Methods(http.MethodPost)
	api.HandleFunc("/extractions/{id}/items", s.handleListItems).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", s.handleGetItem).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "pdfrules"})
}
