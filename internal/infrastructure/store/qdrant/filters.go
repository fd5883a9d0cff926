package qdrant

import "github.com/kirillkom/chess-assistant/internal/core/domain"

// buildFilter translates a predicate tree into the qdrant filter JSON
// shape. A zero predicate yields nil (no filter clause at all).
func buildFilter(p domain.Predicate) map[string]any {
	if p.IsZero() {
		return nil
	}
	return map[string]any{"must": []any{buildCondition(p)}}
}

func buildCondition(p domain.Predicate) map[string]any {
	switch p.Op {
	case domain.OpEquals:
		return map[string]any{
			"key":   p.Field,
			"match": map[string]any{"value": p.Value},
		}
	case domain.OpContains:
		return map[string]any{
			"key":   p.Field,
			"match": map[string]any{"text": p.Value},
		}
	case domain.OpGte:
		return map[string]any{
			"key":   p.Field,
			"range": map[string]any{"gte": p.Value},
		}
	case domain.OpLte:
		return map[string]any{
			"key":   p.Field,
			"range": map[string]any{"lte": p.Value},
		}
	case domain.OpAnyOf:
		return map[string]any{"should": buildConditions(p.Children)}
	case domain.OpAllOf:
		return map[string]any{"must": buildConditions(p.Children)}
	default:
		return map[string]any{}
	}
}

func buildConditions(children []domain.Predicate) []any {
	conditions := make([]any, 0, len(children))
	for _, child := range children {
		if child.IsZero() {
			continue
		}
		conditions = append(conditions, buildCondition(child))
	}
	return conditions
}
