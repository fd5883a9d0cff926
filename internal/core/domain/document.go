package domain

import "time"

type DocumentType string

const (
	DocumentGame    DocumentType = "game"
	DocumentLesson  DocumentType = "lesson"
	DocumentError   DocumentType = "error"
	DocumentMessage DocumentType = "message"
)

// FEN match tiers, recorded on position-search documents so later stages can
// weigh match confidence.
const (
	FENMatchExact      = "exact"
	FENMatchNormalized = "normalized"
	FENMatchPrefix     = "prefix"
	FENMatchStarting   = "starting_position"
)

// RetrievalDocument is the normalized record every executor emits. Store
// failures and empty results travel through the same shape: an error or
// message document instead of a raised error.
type RetrievalDocument struct {
	ID             string         `json:"id"`
	Type           DocumentType   `json:"type"`
	Category       string         `json:"category,omitempty"`
	Content        map[string]any `json:"content,omitempty"`
	SourceStrategy string         `json:"source_strategy"`
	RelevanceScore float64        `json:"relevance_score"`
	QualityScore   float64        `json:"quality_score"`
	Confidence     float64        `json:"confidence,omitempty"`
	FENMatchType   string         `json:"fen_match_type,omitempty"`
}

// IsContent reports whether the document carries retrieved data rather than
// an error or empty-result marker.
func (d RetrievalDocument) IsContent() bool {
	return d.Type == DocumentGame || d.Type == DocumentLesson
}

// ContentString reads a string field from the content payload.
func (d RetrievalDocument) ContentString(key string) string {
	v, ok := d.Content[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

type RetrievalResult struct {
	Documents       []RetrievalDocument `json:"documents"`
	TotalFound      int                 `json:"total_found"`
	StrategyUsed    string              `json:"strategy_used"`
	FiltersApplied  string              `json:"filters_applied"`
	ExecutionTimeMs int64               `json:"execution_time_ms"`
}

// StoreRecord is one raw hit from the document/vector store boundary.
type StoreRecord struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// SessionQuery is one remembered query of a session, used to resolve
// "this position" references against the most recent board seen.
type SessionQuery struct {
	ID        string
	SessionID string
	Query     string
	Strategy  string
	FEN       string
	CreatedAt time.Time
}

// RetrievalRequest is the single inbound shape of the retrieval core.
// Hints, when present, bypass the query parser entirely.
type RetrievalRequest struct {
	Query      string
	CurrentFEN string
	SessionID  string
	Hints      *FilterCriteria
	// Limit overrides any limit extracted from the query when positive.
	Limit int
}

type Answer struct {
	Text    string              `json:"text"`
	Sources []RetrievalDocument `json:"sources"`
}
