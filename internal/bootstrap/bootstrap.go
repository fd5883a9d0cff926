// Package bootstrap wires configuration into a runnable application graph.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/chess-assistant/internal/config"
	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
	"github.com/kirillkom/chess-assistant/internal/core/usecase"
	"github.com/kirillkom/chess-assistant/internal/infrastructure/cache"
	"github.com/kirillkom/chess-assistant/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/chess-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/chess-assistant/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/chess-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/chess-assistant/internal/infrastructure/store/qdrant"
	"github.com/kirillkom/chess-assistant/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	Queue     *nats.Queue
	Retriever ports.Retriever
	Assistant ports.Assistant

	resultCache *cache.Cache[string, domain.RetrievalResult]

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	m := metrics.NewHTTPServerMetrics("api")
	executor := resilience.NewExecutor(resilience.DefaultConfig())

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	store := qdrant.New(
		cfg.QdrantURL,
		embedder,
		executor,
		time.Duration(cfg.StoreTimeoutSeconds)*time.Second,
	)

	var sessions ports.SessionProvider
	var dbClose func()
	if cfg.SessionHistoryEnabled {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewSessionRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}

		sessionCache := cache.New[string, cache.SessionWindow](
			time.Duration(cfg.SessionCacheTTLSeconds)*time.Second,
			cfg.SessionCacheCapacity,
		).WithMetrics(m.CacheCounter("session"))
		sessions = cache.NewCachedSessionProvider(repo, sessionCache)
		dbClose = func() { _ = db.Close() }
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		if dbClose != nil {
			dbClose()
		}
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	resultCache := cache.New[string, domain.RetrievalResult](
		time.Duration(cfg.ResultCacheTTLSeconds)*time.Second,
		cfg.ResultCacheCapacity,
	).WithMetrics(m.CacheCounter("results"))

	executors := []usecase.Executor{
		usecase.NewPositionExecutor(store, cfg.GamesCollection, cfg.PositionScanSample),
		usecase.NewPlayerExecutor(store, cfg.GamesCollection),
		usecase.NewOpeningExecutor(store, cfg.GamesCollection),
		usecase.NewAdvancedFilterExecutor(store, cfg.GamesCollection),
		usecase.NewSemanticFallbackExecutor(store, cfg.GamesCollection, cfg.LessonsCollection),
	}

	retriever := usecase.NewRetrieveUseCase(executors, sessions, resultCache)
	assistant := usecase.NewAskUseCase(retriever, generator)

	return &App{
		Config:  cfg,
		Metrics: m,

		Queue:     queue,
		Retriever: retriever,
		Assistant: assistant,

		resultCache: resultCache,

		closeFn: func() {
			queue.Close()
			if dbClose != nil {
				dbClose()
			}
		},
	}, nil
}

// WatchIngestion flushes cached retrieval results whenever new games land
// in the store. Blocks until ctx is cancelled.
func (a *App) WatchIngestion(ctx context.Context) error {
	return a.Queue.SubscribeGamesIngested(ctx, func(_ context.Context, batchID string) error {
		a.resultCache.Flush()
		slog.Info("result_cache_flushed", "batch_id", batchID)
		return nil
	})
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
