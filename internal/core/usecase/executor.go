package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

// Executor runs one retrieval strategy. Executors never return an error:
// store failures become a single error document, empty results a single
// message document, so the orchestrator composes uniformly.
type Executor interface {
	Strategy() string
	Execute(ctx context.Context, criteria domain.FilterCriteria, query string) []domain.RetrievalDocument
}

func emptyResultDocument(strategy, detail string) domain.RetrievalDocument {
	return domain.RetrievalDocument{
		ID:             uuid.NewString(),
		Type:           domain.DocumentMessage,
		Content:        map[string]any{"message": detail},
		SourceStrategy: strategy,
	}
}

func storeErrorDocument(strategy string, err error) domain.RetrievalDocument {
	slog.Warn("store_query_failed", "strategy", strategy, "error", err)
	return domain.RetrievalDocument{
		ID:             uuid.NewString(),
		Type:           domain.DocumentError,
		Content:        map[string]any{"error": err.Error()},
		SourceStrategy: strategy,
	}
}

// gameDocument normalizes one games-collection record.
func gameDocument(rec domain.StoreRecord, strategy string, relevance float64) domain.RetrievalDocument {
	return domain.RetrievalDocument{
		ID:             rec.ID,
		Type:           domain.DocumentGame,
		Content:        rec.Payload,
		SourceStrategy: strategy,
		RelevanceScore: relevance,
		Confidence:     1.0,
	}
}

// lessonDocument normalizes one lessons-collection record; the store score
// carries similarity, the payload carries association confidence when the
// ingestion pipeline computed one.
func lessonDocument(rec domain.StoreRecord, strategy string) domain.RetrievalDocument {
	confidence := 1.0
	if v, ok := rec.Payload["confidence"].(float64); ok {
		confidence = v
	}
	return domain.RetrievalDocument{
		ID:             rec.ID,
		Type:           domain.DocumentLesson,
		Content:        rec.Payload,
		SourceStrategy: strategy,
		RelevanceScore: rec.Score,
		Confidence:     confidence,
	}
}

func gameDocuments(records []domain.StoreRecord, strategy string, relevance float64) []domain.RetrievalDocument {
	out := make([]domain.RetrievalDocument, 0, len(records))
	for _, rec := range records {
		out = append(out, gameDocument(rec, strategy, relevance))
	}
	return out
}

// eloPredicates builds inclusive range predicates. Distinct bounds combine
// with AND, but one shared minimum for both sides becomes an OR: "games with
// a 2700+ player" should match when either side qualifies.
func eloPredicates(c domain.FilterCriteria) []domain.Predicate {
	preds := make([]domain.Predicate, 0, 4)

	if c.WhiteEloMin != nil && c.BlackEloMin != nil && *c.WhiteEloMin == *c.BlackEloMin {
		preds = append(preds, domain.AnyOf(
			domain.Gte("white_elo", *c.WhiteEloMin),
			domain.Gte("black_elo", *c.BlackEloMin),
		))
	} else {
		if c.WhiteEloMin != nil {
			preds = append(preds, domain.Gte("white_elo", *c.WhiteEloMin))
		}
		if c.BlackEloMin != nil {
			preds = append(preds, domain.Gte("black_elo", *c.BlackEloMin))
		}
	}
	if c.WhiteEloMax != nil {
		preds = append(preds, domain.Lte("white_elo", *c.WhiteEloMax))
	}
	if c.BlackEloMax != nil {
		preds = append(preds, domain.Lte("black_elo", *c.BlackEloMax))
	}
	return preds
}

func openingPredicates(c domain.FilterCriteria) []domain.Predicate {
	preds := make([]domain.Predicate, 0, 2)
	if c.ECOCode != "" {
		preds = append(preds, domain.Equals("eco", c.ECOCode))
	}
	if c.OpeningName != "" {
		preds = append(preds, domain.Contains("opening", c.OpeningName))
	}
	return preds
}

func playerPredicates(c domain.FilterCriteria) []domain.Predicate {
	preds := make([]domain.Predicate, 0, 2)
	if c.AnyPlayer != "" {
		preds = append(preds, domain.AnyOf(
			domain.Contains("white", c.AnyPlayer),
			domain.Contains("black", c.AnyPlayer),
		))
	}
	if c.WhitePlayer != "" {
		preds = append(preds, domain.Contains("white", c.WhitePlayer))
	}
	if c.BlackPlayer != "" {
		preds = append(preds, domain.Contains("black", c.BlackPlayer))
	}
	return preds
}

func metadataPredicates(c domain.FilterCriteria) []domain.Predicate {
	preds := make([]domain.Predicate, 0, 5)
	if c.Event != "" {
		preds = append(preds, domain.Contains("event", c.Event))
	}
	if c.Site != "" {
		preds = append(preds, domain.Contains("site", c.Site))
	}
	if c.DateFrom != "" {
		preds = append(preds, domain.Gte("date", c.DateFrom))
	}
	if c.DateTo != "" {
		preds = append(preds, domain.Lte("date", c.DateTo))
	}
	if c.Year != 0 {
		preds = append(preds, domain.Equals("year", c.Year))
	}
	if c.Result != "" {
		preds = append(preds, domain.Equals("result", string(c.Result)))
	}
	return preds
}

func noMatchDetail(strategy string, c domain.FilterCriteria) string {
	return fmt.Sprintf("no documents matched %s filters: %s", strategy, c.Summary())
}
