package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/kirillkom/chess-assistant/internal/adapters/mcp"
	"github.com/kirillkom/chess-assistant/internal/bootstrap"
	"github.com/kirillkom/chess-assistant/internal/config"
	"github.com/kirillkom/chess-assistant/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	// Stdout carries the MCP protocol; logs must go to stderr.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	go func() {
		if err := app.WatchIngestion(ctx); err != nil && ctx.Err() == nil {
			slog.Error("ingestion_watch_failed", "error", err)
		}
	}()

	server := mcpadapter.NewServer(app.Retriever, app.Assistant)
	if err := server.Serve(ctx); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
