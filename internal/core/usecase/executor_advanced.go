package usecase

import (
	"context"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
)

// AdvancedFilterExecutor handles queries whose dominant filter is an ELO
// range, or where several weaker filters combine. Every populated criteria
// field becomes one predicate in a single conjunction.
type AdvancedFilterExecutor struct {
	store      ports.StoreClient
	collection string
}

func NewAdvancedFilterExecutor(store ports.StoreClient, collection string) *AdvancedFilterExecutor {
	return &AdvancedFilterExecutor{store: store, collection: collection}
}

func (e *AdvancedFilterExecutor) Strategy() string {
	return StrategyAdvancedFilter
}

func (e *AdvancedFilterExecutor) Execute(ctx context.Context, criteria domain.FilterCriteria, _ string) []domain.RetrievalDocument {
	preds := make([]domain.Predicate, 0, 8)
	preds = append(preds, playerPredicates(criteria)...)
	preds = append(preds, eloPredicates(criteria)...)
	preds = append(preds, openingPredicates(criteria)...)
	preds = append(preds, metadataPredicates(criteria)...)
	if len(preds) == 0 {
		return []domain.RetrievalDocument{emptyResultDocument(e.Strategy(), "no filters supplied")}
	}

	records, err := e.store.FetchByPredicate(ctx, e.collection, domain.AllOf(preds...), criteria.EffectiveLimit())
	if err != nil {
		return []domain.RetrievalDocument{storeErrorDocument(e.Strategy(), err)}
	}
	if len(records) == 0 {
		return []domain.RetrievalDocument{emptyResultDocument(e.Strategy(), noMatchDetail(e.Strategy(), criteria))}
	}
	return gameDocuments(records, e.Strategy(), 1.0)
}
