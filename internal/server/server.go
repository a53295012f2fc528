package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/session"
	"storefront/pkg/logging"
)

const (
	// DefaultReadHeaderTimeout is the default timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultWriteTimeout is the default timeout for writing responses.
	DefaultWriteTimeout = 120 * time.Second
	// DefaultIdleTimeout is the default idle timeout for keepalive connections.
	DefaultIdleTimeout = 120 * time.Second
)

// Server is the widget/API HTTP surface: the auth relay, the commerce proxy
// endpoints, and the login completion page.
type Server struct {
	store      session.Store
	commerce   *commerce.Client
	sessionTTL time.Duration

	httpServer *http.Server
}

// New creates the HTTP server. store may be session.Unavailable() when no
// cache is configured; every auth-dependent endpoint then degrades uniformly.
func New(cfg config.HTTPConfig, store session.Store, commerceClient *commerce.Client, sessionTTL time.Duration) *Server {
	s := &Server{
		store:      store,
		commerce:   commerceClient,
		sessionTTL: sessionTTL,
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	return s
}

// Handler builds the route table with the CORS middleware applied to the
// whole mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/auth/save", s.handleAuthSave)
	mux.HandleFunc("/api/auth/poll", s.handleAuthPoll)
	mux.HandleFunc("/api/cart", s.handleCart)
	mux.HandleFunc("/api/check-out", s.handleCheckout)
	mux.HandleFunc("/login/success", s.handleLoginSuccess)

	return corsMiddleware(mux)
}

// Start runs the HTTP server until it fails or Shutdown is called.
func (s *Server) Start() error {
	logging.Info("HTTP", "Starting widget/API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("HTTP", "Shutting down widget/API server")
	return s.httpServer.Shutdown(ctx)
}
