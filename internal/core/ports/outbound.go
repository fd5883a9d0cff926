package ports

import (
	"context"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

// StoreClient is the document/vector store boundary. Implementations own
// retries, timeouts and connection handling; callers only see records or a
// single error per call.
type StoreClient interface {
	FetchByPredicate(ctx context.Context, collection string, predicate domain.Predicate, limit int) ([]domain.StoreRecord, error)
	NearTextSearch(ctx context.Context, collection, text string, limit int) ([]domain.StoreRecord, error)
	FetchByID(ctx context.Context, collection, id string) (domain.StoreRecord, error)
}

// SessionProvider reads and appends per-session query history. A nil or
// failing provider degrades to "no session"; it never blocks retrieval.
type SessionProvider interface {
	RecentQueries(ctx context.Context, sessionID string, limit int) ([]domain.SessionQuery, error)
	RecordQuery(ctx context.Context, query domain.SessionQuery) error
}

// Embedder builds vectors for near-text search.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// AnswerGenerator creates the final user-facing answer from retrieved
// documents.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question string, documents []domain.RetrievalDocument) (string, error)
}

// ResultCache stores computed retrieval results keyed by a deterministic
// query hash.
type ResultCache interface {
	Get(key string) (domain.RetrievalResult, bool)
	Set(key string, value domain.RetrievalResult)
	Flush()
}
