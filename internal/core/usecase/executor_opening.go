package usecase

import (
	"context"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
)

// OpeningExecutor finds games by ECO code or canonical opening name.
type OpeningExecutor struct {
	store      ports.StoreClient
	collection string
}

func NewOpeningExecutor(store ports.StoreClient, collection string) *OpeningExecutor {
	return &OpeningExecutor{store: store, collection: collection}
}

func (e *OpeningExecutor) Strategy() string {
	return StrategyOpeningSearch
}

func (e *OpeningExecutor) Execute(ctx context.Context, criteria domain.FilterCriteria, _ string) []domain.RetrievalDocument {
	preds := openingPredicates(criteria)
	if len(preds) == 0 {
		return []domain.RetrievalDocument{emptyResultDocument(e.Strategy(), "no opening supplied")}
	}
	preds = append(preds, eloPredicates(criteria)...)
	preds = append(preds, metadataPredicates(criteria)...)

	records, err := e.store.FetchByPredicate(ctx, e.collection, domain.AllOf(preds...), criteria.EffectiveLimit())
	if err != nil {
		return []domain.RetrievalDocument{storeErrorDocument(e.Strategy(), err)}
	}
	if len(records) == 0 {
		return []domain.RetrievalDocument{emptyResultDocument(e.Strategy(), noMatchDetail(e.Strategy(), criteria))}
	}
	return gameDocuments(records, e.Strategy(), 1.0)
}
