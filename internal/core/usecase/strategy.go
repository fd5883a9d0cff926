package usecase

import "github.com/kirillkom/chess-assistant/internal/core/domain"

// Retrieval strategy names. Exactly one executor is registered per name.
const (
	StrategyPositionSearch   = "position_search"
	StrategyPlayerSearch     = "player_search"
	StrategyOpeningSearch    = "opening_search"
	StrategyAdvancedFilter   = "advanced_filter"
	StrategySemanticFallback = "semantic_fallback"
)

// SelectStrategy maps prioritized criteria to a strategy name. Pure function
// over the primary filter type; an ELO range alone needs the general
// multi-predicate executor, and anything without a recognized dominant
// filter degrades to semantic search unless several weak filters are
// present at once.
func SelectStrategy(c domain.FilterCriteria) string {
	switch c.PrimaryFilterType() {
	case domain.PriorityFENPosition:
		return StrategyPositionSearch
	case domain.PriorityPlayerName:
		return StrategyPlayerSearch
	case domain.PriorityEloRange:
		return StrategyAdvancedFilter
	case domain.PriorityOpening:
		return StrategyOpeningSearch
	}
	if len(c.PriorityFilters()) >= 2 {
		return StrategyAdvancedFilter
	}
	return StrategySemanticFallback
}
