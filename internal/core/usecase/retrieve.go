package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
)

// RetrieveUseCase composes parser, prioritizer, strategy selection,
// executors and post-processing into one call. It holds no per-call state;
// concurrent Retrieve calls share only the injected cache and session
// provider, both of which guard their own mutation.
type RetrieveUseCase struct {
	executors map[string]Executor
	sessions  ports.SessionProvider
	results   ports.ResultCache

	sessionLookback int
}

func NewRetrieveUseCase(
	executors []Executor,
	sessions ports.SessionProvider,
	results ports.ResultCache,
) *RetrieveUseCase {
	byStrategy := make(map[string]Executor, len(executors))
	for _, executor := range executors {
		byStrategy[executor.Strategy()] = executor
	}
	return &RetrieveUseCase{
		executors:       byStrategy,
		sessions:        sessions,
		results:         results,
		sessionLookback: 10,
	}
}

func (uc *RetrieveUseCase) Retrieve(ctx context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error) {
	start := time.Now()

	query := strings.TrimSpace(req.Query)
	if query == "" && req.Hints == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "retrieve", fmt.Errorf("query or hints required"))
	}

	currentFEN := strings.TrimSpace(req.CurrentFEN)
	if currentFEN == "" && req.SessionID != "" && MentionsCurrentPosition(query) {
		currentFEN = uc.lastSessionFEN(ctx, req.SessionID)
	}

	var criteria domain.FilterCriteria
	if req.Hints != nil {
		// An upstream classifier already extracted the filters; the parser
		// is skipped and prioritization runs on the supplied criteria.
		criteria = *req.Hints
		if criteria.FENPosition != "" && criteria.FENNormalized == "" {
			criteria.FENNormalized = domain.NormalizeFEN(criteria.FENPosition)
		}
	} else {
		criteria = ParseQuery(query, currentFEN)
	}
	if req.Limit > 0 {
		criteria.Limit = req.Limit
		if criteria.Limit > domain.MaxResultLimit {
			criteria.Limit = domain.MaxResultLimit
		}
	}
	criteria = PrioritizeCriteria(criteria)
	strategy := SelectStrategy(criteria)

	key := resultCacheKey(query, currentFEN, criteria)
	if uc.results != nil {
		if cached, ok := uc.results.Get(key); ok {
			cached.ExecutionTimeMs = time.Since(start).Milliseconds()
			return &cached, nil
		}
	}

	executor, ok := uc.executors[strategy]
	if !ok {
		executor = uc.executors[StrategySemanticFallback]
	}
	if executor == nil {
		return nil, fmt.Errorf("retrieve: no executor registered for strategy %q", strategy)
	}

	documents := executor.Execute(ctx, criteria, query)
	documents = PostProcess(documents, criteria)

	result := &domain.RetrievalResult{
		Documents:       documents,
		TotalFound:      countContent(documents),
		StrategyUsed:    strategy,
		FiltersApplied:  criteria.Summary(),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}

	if uc.results != nil && cacheable(documents) {
		uc.results.Set(key, *result)
	}
	uc.recordHistory(ctx, req, strategy, criteria)

	slog.Info("retrieval_executed",
		"strategy", strategy,
		"filters", result.FiltersApplied,
		"documents", result.TotalFound,
		"duration_ms", result.ExecutionTimeMs,
	)
	return result, nil
}

// lastSessionFEN resolves "this position" against the most recent board the
// session has seen. Any history failure degrades to no session.
func (uc *RetrieveUseCase) lastSessionFEN(ctx context.Context, sessionID string) string {
	if uc.sessions == nil {
		return ""
	}
	history, err := uc.sessions.RecentQueries(ctx, sessionID, uc.sessionLookback)
	if err != nil {
		slog.Warn("session_history_unavailable", "session_id", sessionID, "error", err)
		return ""
	}
	for _, entry := range history {
		if entry.FEN != "" {
			return entry.FEN
		}
	}
	return ""
}

func (uc *RetrieveUseCase) recordHistory(ctx context.Context, req domain.RetrievalRequest, strategy string, criteria domain.FilterCriteria) {
	if uc.sessions == nil || req.SessionID == "" {
		return
	}
	err := uc.sessions.RecordQuery(ctx, domain.SessionQuery{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Query:     req.Query,
		Strategy:  strategy,
		FEN:       criteria.FENPosition,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("session_history_write_failed", "session_id", req.SessionID, "error", err)
	}
}

// resultCacheKey hashes the inputs that determine a result. Criteria are
// summarized after prioritization so equivalent queries share an entry.
func resultCacheKey(query, currentFEN string, criteria domain.FilterCriteria) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(query)))
	h.Write([]byte{0})
	h.Write([]byte(currentFEN))
	h.Write([]byte{0})
	h.Write([]byte(criteria.Summary()))
	h.Write([]byte{0})
	h.Write([]byte(fmt.Sprintf("%d", criteria.EffectiveLimit())))
	return hex.EncodeToString(h.Sum(nil))
}

func countContent(docs []domain.RetrievalDocument) int {
	count := 0
	for _, doc := range docs {
		if doc.IsContent() {
			count++
		}
	}
	return count
}

// cacheable rejects result sets that only report a store failure; errors
// must not be served from cache once the store recovers.
func cacheable(docs []domain.RetrievalDocument) bool {
	for _, doc := range docs {
		if doc.Type == domain.DocumentError {
			return false
		}
	}
	return true
}
