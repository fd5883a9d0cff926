package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
)

// SemanticFallbackExecutor handles queries no structured filter could
// anchor. It runs a near-text similarity search over games and, when a
// secondary lessons collection is configured, reserves roughly half the
// result budget for educational content. A missing or failing lessons
// collection is skipped silently; the fallback must not fail just because
// the secondary source is absent.
type SemanticFallbackExecutor struct {
	store             ports.StoreClient
	gamesCollection   string
	lessonsCollection string
}

func NewSemanticFallbackExecutor(store ports.StoreClient, gamesCollection, lessonsCollection string) *SemanticFallbackExecutor {
	return &SemanticFallbackExecutor{
		store:             store,
		gamesCollection:   gamesCollection,
		lessonsCollection: lessonsCollection,
	}
}

func (e *SemanticFallbackExecutor) Strategy() string {
	return StrategySemanticFallback
}

func (e *SemanticFallbackExecutor) Execute(ctx context.Context, criteria domain.FilterCriteria, query string) []domain.RetrievalDocument {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.RetrievalDocument{emptyResultDocument(e.Strategy(), "empty query")}
	}
	limit := criteria.EffectiveLimit()

	lessonsBudget := 0
	if e.lessonsCollection != "" {
		lessonsBudget = limit / 2
	}
	gamesBudget := limit - lessonsBudget

	gameRecords, err := e.store.NearTextSearch(ctx, e.gamesCollection, query, gamesBudget)
	if err != nil {
		return []domain.RetrievalDocument{storeErrorDocument(e.Strategy(), err)}
	}

	docs := make([]domain.RetrievalDocument, 0, limit)
	for _, rec := range gameRecords {
		doc := gameDocument(rec, e.Strategy(), rec.Score)
		docs = append(docs, doc)
	}

	if lessonsBudget > 0 {
		lessonRecords, err := e.store.NearTextSearch(ctx, e.lessonsCollection, query, lessonsBudget)
		if err != nil {
			slog.Debug("lessons_collection_unavailable", "error", err)
		} else {
			for _, rec := range lessonRecords {
				docs = append(docs, lessonDocument(rec, e.Strategy()))
			}
		}
	}

	if len(docs) == 0 {
		return []domain.RetrievalDocument{emptyResultDocument(e.Strategy(), "no semantically similar documents found")}
	}
	return docs
}
