// cmd/server/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sozercan/dealer-assistant/internal/assistant"
	"github.com/sozercan/dealer-assistant/internal/config"
	"github.com/sozercan/dealer-assistant/internal/inventory"
	"github.com/sozercan/dealer-assistant/internal/llm"
	"github.com/sozercan/dealer-assistant/internal/logging"
	"github.com/sozercan/dealer-assistant/internal/server"
	"github.com/sozercan/dealer-assistant/internal/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logging.Setup(cfg.Log, os.Stderr)

	source, err := inventory.NewHTTPSource(cfg.Inventory.URL, cfg.Inventory.Timeout,
		inventory.WithRateLimit(cfg.Inventory.Rate, cfg.Inventory.Burst))
	if err != nil {
		log.Fatalf("failed to create inventory source: %v", err)
	}
	searcher := inventory.NewSearcher(source, cfg.Inventory.Timeout)

	llmProvider, err := llm.NewOpenAI(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	sessions := session.NewStore(session.Options{
		IdleTTL:     cfg.Session.IdleTTL,
		MaxSessions: cfg.Session.MaxSessions,
	})
	janitor, err := session.NewJanitor(sessions, cfg.Session.SweepInterval)
	if err != nil {
		log.Fatalf("failed to create session janitor: %v", err)
	}
	janitor.Start()

	asst := assistant.New(llmProvider, searcher, sessions)

	srv := server.New(cfg.Server, asst)
	srv.OnShutdown(janitor.Stop)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
