package usecase

import (
	"context"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
)

// PlayerExecutor finds games by player name. The player branch of the
// prioritizer keeps ELO, opening, event, date and result filters alive, so
// they all fold into one conjunctive predicate here.
type PlayerExecutor struct {
	store      ports.StoreClient
	collection string
}

func NewPlayerExecutor(store ports.StoreClient, collection string) *PlayerExecutor {
	return &PlayerExecutor{store: store, collection: collection}
}

func (e *PlayerExecutor) Strategy() string {
	return StrategyPlayerSearch
}

func (e *PlayerExecutor) Execute(ctx context.Context, criteria domain.FilterCriteria, _ string) []domain.RetrievalDocument {
	preds := playerPredicates(criteria)
	if len(preds) == 0 {
		return []domain.RetrievalDocument{emptyResultDocument(e.Strategy(), "no player supplied")}
	}
	preds = append(preds, eloPredicates(criteria)...)
	preds = append(preds, openingPredicates(criteria)...)
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
