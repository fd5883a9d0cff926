package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

type stubRetriever struct {
	result *domain.RetrievalResult
	err    error
}

func (s *stubRetriever) Retrieve(_ context.Context, _ domain.RetrievalRequest) (*domain.RetrievalResult, error) {
	return s.result, s.err
}

type stubGenerator struct {
	answer   string
	err      error
	question string
	docs     []domain.RetrievalDocument
}

func (s *stubGenerator) GenerateAnswer(_ context.Context, question string, docs []domain.RetrievalDocument) (string, error) {
	s.question = question
	s.docs = docs
	return s.answer, s.err
}

func TestAskGeneratesFromRetrievedDocuments(t *testing.T) {
	docs := []domain.RetrievalDocument{gameDoc("g1"), gameDoc("g2")}
	retriever := &stubRetriever{result: &domain.RetrievalResult{Documents: docs, TotalFound: 2}}
	generator := &stubGenerator{answer: "White converts the extra pawn."}
	uc := NewAskUseCase(retriever, generator)

	answer, err := uc.Ask(context.Background(), domain.RetrievalRequest{Query: "how does white win here"})
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if answer.Text != "White converts the extra pawn." {
		t.Fatalf("Text = %q", answer.Text)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("Sources = %+v", answer.Sources)
	}
	if generator.question != "how does white win here" || len(generator.docs) != 2 {
		t.Fatalf("generator received question=%q docs=%d", generator.question, len(generator.docs))
	}
}

func TestAskPropagatesRetrievalError(t *testing.T) {
	kindErr := domain.WrapError(domain.ErrInvalidInput, "retrieve", errors.New("empty"))
	uc := NewAskUseCase(&stubRetriever{err: kindErr}, &stubGenerator{})

	_, err := uc.Ask(context.Background(), domain.RetrievalRequest{})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("error kind must survive wrapping, got %v", err)
	}
}

func TestAskPropagatesGeneratorError(t *testing.T) {
	retriever := &stubRetriever{result: &domain.RetrievalResult{}}
	uc := NewAskUseCase(retriever, &stubGenerator{err: errors.New("model offline")})

	if _, err := uc.Ask(context.Background(), domain.RetrievalRequest{Query: "q"}); err == nil {
		t.Fatal("expected generator error to surface")
	}
}
