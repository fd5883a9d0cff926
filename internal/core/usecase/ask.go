package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
)

// AskUseCase answers a question in natural language over the retrieval
// core's output. The generator is an external collaborator; retrieval
// quality is decided before it ever runs.
type AskUseCase struct {
	retriever ports.Retriever
	generator ports.AnswerGenerator
}

func NewAskUseCase(retriever ports.Retriever, generator ports.AnswerGenerator) *AskUseCase {
	return &AskUseCase{
		retriever: retriever,
		generator: generator,
	}
}

func (uc *AskUseCase) Ask(ctx context.Context, req domain.RetrievalRequest) (*domain.Answer, error) {
	result, err := uc.retriever.Retrieve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	text, err := uc.generator.GenerateAnswer(ctx, req.Query, result.Documents)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    text,
		Sources: result.Documents,
	}, nil
}
