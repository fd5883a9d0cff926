package ports

import (
	"context"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

// Retriever is the single entry point of the retrieval core.
type Retriever interface {
	Retrieve(ctx context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error)
}

// Assistant answers a question in natural language over retrieved documents.
type Assistant interface {
	Ask(ctx context.Context, req domain.RetrievalRequest) (*domain.Answer, error)
}
