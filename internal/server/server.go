package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sundayezeilo/nanolink/internal/account"
	"github.com/sundayezeilo/nanolink/internal/config"
	"github.com/sundayezeilo/nanolink/internal/httpx"
	"github.com/sundayezeilo/nanolink/internal/shortener"
)

// Server represents the HTTP server with all dependencies.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	links    *shortener.Handler
	accounts *account.Handler
	server   *http.Server
}

// New creates a new Server instance.
func New(cfg *config.Config, logger *slog.Logger, links *shortener.Handler, accounts *account.Handler) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		links:    links,
		accounts: accounts,
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting http server",
			"addr", s.server.Addr,
			"env", s.config.App.Environment,
		)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.stop()

	case <-ctx.Done():
		s.logger.Info("context cancelled", "error", ctx.Err())
		return s.stop()
	}
}

func (s *Server) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		// Force close if graceful shutdown fails
		if closeErr := s.server.Close(); closeErr != nil {
			return fmt.Errorf("failed to close server: %w", closeErr)
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}

// Routes returns the fully wrapped HTTP handler.
func (s *Server) Routes() http.Handler {
	return s.applyMiddleware(s.setupRoutes())
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /x/health", s.healthCheckHandler)

	mux.HandleFunc("POST /api/shorten", s.links.CreateLink)
	mux.HandleFunc("GET /api/url/{code}", s.links.GetLink)
	mux.HandleFunc("POST /api/click/{code}", s.links.RecordClick)
	mux.HandleFunc("GET /api/activity", s.links.ListActivity)
	mux.HandleFunc("DELETE /api/activity/{id}", s.links.DeleteLink)

	mux.HandleFunc("POST /api/auth/register", s.accounts.Register)
	mux.HandleFunc("POST /api/auth/login", s.accounts.Login)

	// A local fallback gets its own route, otherwise it would be read as a
	// short code and redirect to itself.
	if s.config.Links.FallbackIsLocal() {
		mux.HandleFunc("GET "+s.config.Links.FallbackURL, s.welcomeHandler)
	}

	mux.Handle("GET /{code}", httpx.NoCache(http.HandlerFunc(s.links.Redirect)))

	return mux
}

// applyMiddleware wraps the handler with middleware in the correct order.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	return httpx.Chain(
		httpx.Recovery(s.logger), // Outermost: catch panics
		httpx.RequestID,
		httpx.Logger(s.logger),
		httpx.CORS(s.config.Server.AllowedOrigins),
	)(handler)
}

// healthCheckHandler handles health check requests.
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
	})
}

// welcomeHandler is the landing target for codes that cannot be served.
func (s *Server) welcomeHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"service": s.config.App.Name,
		"message": "This short link does not exist or has expired.",
	})
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("shutdown timeout exceeded, forcing close")
			return s.server.Close()
		}
		return err
	}

	return nil
}
