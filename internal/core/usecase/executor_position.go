package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
)

// Relevance weights per FEN match tier. Exact equality is authoritative;
// prefix matching is a broad lower-confidence fallback.
const (
	relevanceExactFEN      = 1.0
	relevanceNormalizedFEN = 0.9
	relevancePrefixFEN     = 0.6
	relevanceStartingFEN   = 0.5
)

// PositionExecutor resolves a target FEN against stored games through four
// escalating tiers. Each tier runs only when the previous one matched
// nothing, and documents record the tier that produced them.
type PositionExecutor struct {
	store         ports.StoreClient
	collection    string
	scanSample    int
	defaultSample int
}

func NewPositionExecutor(store ports.StoreClient, collection string, scanSample int) *PositionExecutor {
	if scanSample <= 0 {
		scanSample = 200
	}
	return &PositionExecutor{
		store:         store,
		collection:    collection,
		scanSample:    scanSample,
		defaultSample: domain.DefaultResultLimit,
	}
}

func (e *PositionExecutor) Strategy() string {
	return StrategyPositionSearch
}

func (e *PositionExecutor) Execute(ctx context.Context, criteria domain.FilterCriteria, _ string) []domain.RetrievalDocument {
	target := criteria.FENPosition
	if target == "" {
		return []domain.RetrievalDocument{emptyResultDocument(e.Strategy(), "no position supplied")}
	}
	limit := criteria.EffectiveLimit()

	// Every game passes through the starting position; matching would walk
	// the whole collection only to return everything. Serve a sample.
	if domain.IsStartingPosition(target) {
		docs, err := e.sampleGames(ctx, criteria, limit)
		if err != nil {
			return []domain.RetrievalDocument{storeErrorDocument(e.Strategy(), err)}
		}
		return e.tagged(docs, domain.FENMatchStarting, relevanceStartingFEN)
	}

	docs, err := e.matchExact(ctx, criteria, target, limit)
	if err != nil {
		return []domain.RetrievalDocument{storeErrorDocument(e.Strategy(), err)}
	}
	if len(docs) > 0 {
		return e.tagged(docs, domain.FENMatchExact, relevanceExactFEN)
	}

	docs, err = e.matchNormalized(ctx, criteria, target, limit)
	if err != nil {
		return []domain.RetrievalDocument{storeErrorDocument(e.Strategy(), err)}
	}
	if len(docs) > 0 {
		return e.tagged(docs, domain.FENMatchNormalized, relevanceNormalizedFEN)
	}

	docs, err = e.matchPrefix(ctx, criteria, target, limit)
	if err != nil {
		return []domain.RetrievalDocument{storeErrorDocument(e.Strategy(), err)}
	}
	if len(docs) > 0 {
		return e.tagged(docs, domain.FENMatchPrefix, relevancePrefixFEN)
	}

	return []domain.RetrievalDocument{emptyResultDocument(e.Strategy(), noMatchDetail(e.Strategy(), criteria))}
}

// withSurvivingFilters keeps the ELO/opening predicates the prioritizer let
// through alongside the position predicate.
func (e *PositionExecutor) withSurvivingFilters(criteria domain.FilterCriteria, position domain.Predicate) domain.Predicate {
	preds := make([]domain.Predicate, 0, 4)
	if !position.IsZero() {
		preds = append(preds, position)
	}
	preds = append(preds, eloPredicates(criteria)...)
	preds = append(preds, openingPredicates(criteria)...)
	if len(preds) == 0 {
		return domain.Predicate{}
	}
	return domain.AllOf(preds...)
}

// Tier 1: exact string equality against the final position, the stored
// mid-game snapshot, or any per-ply position.
func (e *PositionExecutor) matchExact(ctx context.Context, criteria domain.FilterCriteria, target string, limit int) ([]domain.RetrievalDocument, error) {
	position := domain.AnyOf(
		domain.Equals("final_fen", target),
		domain.Equals("mid_game_fen", target),
		domain.Equals("fens", target),
	)
	records, err := e.store.FetchByPredicate(ctx, e.collection, e.withSurvivingFilters(criteria, position), limit)
	if err != nil {
		return nil, err
	}
	return gameDocuments(records, e.Strategy(), relevanceExactFEN), nil
}

// Tier 2: equality on the en-passant-normalized fields. En-passant
// availability is a transient detail the searcher rarely cares about.
func (e *PositionExecutor) matchNormalized(ctx context.Context, criteria domain.FilterCriteria, target string, limit int) ([]domain.RetrievalDocument, error) {
	normalized := domain.NormalizeFEN(target)
	position := domain.AnyOf(
		domain.Equals("final_fen_norm", normalized),
		domain.Equals("mid_game_fen_norm", normalized),
		domain.Equals("fens_norm", normalized),
	)
	records, err := e.store.FetchByPredicate(ctx, e.collection, e.withSurvivingFilters(criteria, position), limit)
	if err != nil {
		return nil, err
	}
	return gameDocuments(records, e.Strategy(), relevanceNormalizedFEN), nil
}

// Tier 3: board-layout + side-to-move prefix comparison across a bounded
// sample, scanned client-side. The predicate algebra has no prefix operator
// and the tier is a deliberate low-confidence net, not an indexed lookup.
func (e *PositionExecutor) matchPrefix(ctx context.Context, criteria domain.FilterCriteria, target string, limit int) ([]domain.RetrievalDocument, error) {
	prefix := domain.FENPrefix(target)
	sample := e.withSurvivingFilters(criteria, domain.Predicate{})

	records, err := e.store.FetchByPredicate(ctx, e.collection, sample, e.scanSample)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.StoreRecord, 0, limit)
	for _, rec := range records {
		if recordHasFENPrefix(rec, prefix) {
			matched = append(matched, rec)
			if len(matched) >= limit {
				break
			}
		}
	}
	slog.Debug("position_prefix_scan",
		"scanned", len(records),
		"matched", len(matched),
		"prefix", prefix,
	)
	return gameDocuments(matched, e.Strategy(), relevancePrefixFEN), nil
}

func (e *PositionExecutor) sampleGames(ctx context.Context, criteria domain.FilterCriteria, limit int) ([]domain.RetrievalDocument, error) {
	predicate := e.withSurvivingFilters(criteria, domain.Predicate{})
	records, err := e.store.FetchByPredicate(ctx, e.collection, predicate, limit)
	if err != nil {
		return nil, err
	}
	return gameDocuments(records, e.Strategy(), relevanceStartingFEN), nil
}

func (e *PositionExecutor) tagged(docs []domain.RetrievalDocument, matchType string, relevance float64) []domain.RetrievalDocument {
	for i := range docs {
		docs[i].FENMatchType = matchType
		docs[i].RelevanceScore = relevance
	}
	return docs
}

// recordHasFENPrefix checks the stored position fields of one game record
// against a "layout + side to move" prefix. FEN-shaped strings that are not
// legal encodings still compare fine; this is opaque string matching only.
func recordHasFENPrefix(rec domain.StoreRecord, prefix string) bool {
	for _, field := range []string{"final_fen", "mid_game_fen"} {
		if s, ok := rec.Payload[field].(string); ok && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	plies, ok := rec.Payload["fens"].([]any)
	if !ok {
		return false
	}
	for _, ply := range plies {
		if s, ok := ply.(string); ok && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
