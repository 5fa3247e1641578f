package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sozercan/dealer-assistant/internal/assistant"
	"github.com/sozercan/dealer-assistant/internal/config"
)

const defaultShutdownTimeout = 30 * time.Second

// Responder answers chat questions.
type Responder interface {
	Respond(ctx context.Context, question, sessionID string) (assistant.Answer, error)
}

type Server struct {
	cfg       config.ServerConfig
	router    *chi.Mux
	server    *http.Server
	assistant Responder
	hooks     []func()
}

func New(cfg config.ServerConfig, assistant Responder) *Server {
	s := &Server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		assistant: assistant,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      otelhttp.NewHandler(s.router, "dealer-assistant"),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	s.router.With(newClientLimiter(s.cfg.ChatRate, s.cfg.ChatBurst).Middleware).
		Post("/chat", s.handleChat)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
	})

	// Static chat page
	if s.cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.cfg.StaticDir))
		s.router.Handle("/*", fs)
	}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// OnShutdown registers f to run once the server has stopped serving, in
// registration order.
func (s *Server) OnShutdown(f func()) {
	s.hooks = append(s.hooks, f)
}

// Run serves until ctx is cancelled or the listener fails. In-flight chats
// get ShutdownTimeout to finish before the shutdown hooks run.
func (s *Server) Run(ctx context.Context) error {
	defer s.runHooks()

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "address", s.server.Addr, "static_dir", s.cfg.StaticDir)
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		slog.Info("Shutting down, draining chat requests", "timeout", timeout)

		drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.server.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	slog.Info("Server stopped")
	return nil
}

func (s *Server) runHooks() {
	for _, f := range s.hooks {
		f()
	}
}
