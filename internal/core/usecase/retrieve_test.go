package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

type fakeExecutor struct {
	strategy     string
	docs         []domain.RetrievalDocument
	calls        int
	lastCriteria domain.FilterCriteria
	lastQuery    string
}

func (f *fakeExecutor) Strategy() string { return f.strategy }

func (f *fakeExecutor) Execute(_ context.Context, criteria domain.FilterCriteria, query string) []domain.RetrievalDocument {
	f.calls++
	f.lastCriteria = criteria
	f.lastQuery = query
	return f.docs
}

type fakeResultCache struct {
	entries map[string]domain.RetrievalResult
	sets    int
}

func (c *fakeResultCache) Get(key string) (domain.RetrievalResult, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeResultCache) Set(key string, value domain.RetrievalResult) {
	if c.entries == nil {
		c.entries = make(map[string]domain.RetrievalResult)
	}
	c.entries[key] = value
	c.sets++
}

func (c *fakeResultCache) Flush() { c.entries = nil }

type fakeSessionProvider struct {
	history    []domain.SessionQuery
	historyErr error
	recorded   []domain.SessionQuery
	recordErr  error
}

func (f *fakeSessionProvider) RecentQueries(_ context.Context, _ string, _ int) ([]domain.SessionQuery, error) {
	return f.history, f.historyErr
}

func (f *fakeSessionProvider) RecordQuery(_ context.Context, q domain.SessionQuery) error {
	f.recorded = append(f.recorded, q)
	return f.recordErr
}

func gameDoc(id string) domain.RetrievalDocument {
	return domain.RetrievalDocument{
		ID:         id,
		Type:       domain.DocumentGame,
		Content:    map[string]any{},
		Confidence: 1.0,
	}
}

func TestRetrieveRejectsEmptyRequest(t *testing.T) {
	uc := NewRetrieveUseCase(nil, nil, nil)
	_, err := uc.Retrieve(context.Background(), domain.RetrievalRequest{Query: "   "})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRetrieveRoutesByStrategy(t *testing.T) {
	player := &fakeExecutor{strategy: StrategyPlayerSearch, docs: []domain.RetrievalDocument{gameDoc("g1")}}
	semantic := &fakeExecutor{strategy: StrategySemanticFallback}
	uc := NewRetrieveUseCase([]Executor{player, semantic}, nil, nil)

	result, err := uc.Retrieve(context.Background(), domain.RetrievalRequest{Query: "games by Carlsen"})
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if result.StrategyUsed != StrategyPlayerSearch {
		t.Fatalf("StrategyUsed = %q", result.StrategyUsed)
	}
	if player.calls != 1 || semantic.calls != 0 {
		t.Fatalf("wrong executor invoked: player=%d semantic=%d", player.calls, semantic.calls)
	}
	if result.TotalFound != 1 {
		t.Fatalf("TotalFound = %d", result.TotalFound)
	}
	if result.FiltersApplied == "" || result.FiltersApplied == "none" {
		t.Fatalf("FiltersApplied = %q", result.FiltersApplied)
	}
}

func TestRetrieveFallsBackToSemantic(t *testing.T) {
	semantic := &fakeExecutor{strategy: StrategySemanticFallback, docs: []domain.RetrievalDocument{gameDoc("g1")}}
	uc := NewRetrieveUseCase([]Executor{semantic}, nil, nil)

	// Player strategy selected, but no player executor is registered.
	result, err := uc.Retrieve(context.Background(), domain.RetrievalRequest{Query: "games by Carlsen"})
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if semantic.calls != 1 {
		t.Fatalf("semantic fallback not invoked")
	}
	if result.StrategyUsed != StrategyPlayerSearch {
		t.Fatalf("StrategyUsed should report the selected strategy, got %q", result.StrategyUsed)
	}
}

func TestRetrieveNoExecutorAtAll(t *testing.T) {
	uc := NewRetrieveUseCase(nil, nil, nil)
	_, err := uc.Retrieve(context.Background(), domain.RetrievalRequest{Query: "anything"})
	if err == nil {
		t.Fatal("expected an error with no registered executors")
	}
}

func TestRetrieveHintsBypassParser(t *testing.T) {
	position := &fakeExecutor{strategy: StrategyPositionSearch, docs: []domain.RetrievalDocument{gameDoc("g1")}}
	uc := NewRetrieveUseCase([]Executor{position}, nil, nil)

	req := domain.RetrievalRequest{
		Hints: &domain.FilterCriteria{FENPosition: sicilianFEN, Limit: domain.DefaultResultLimit},
	}
	if _, err := uc.Retrieve(context.Background(), req); err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if position.calls != 1 {
		t.Fatalf("position executor not invoked")
	}
	if position.lastCriteria.FENNormalized != domain.NormalizeFEN(sicilianFEN) {
		t.Fatalf("hints must get a normalized FEN, got %q", position.lastCriteria.FENNormalized)
	}
}

func TestRetrieveLimitOverride(t *testing.T) {
	semantic := &fakeExecutor{strategy: StrategySemanticFallback, docs: []domain.RetrievalDocument{gameDoc("g1")}}
	uc := NewRetrieveUseCase([]Executor{semantic}, nil, nil)

	if _, err := uc.Retrieve(context.Background(), domain.RetrievalRequest{Query: "endgames", Limit: 7}); err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if semantic.lastCriteria.Limit != 7 {
		t.Fatalf("Limit = %d, want 7", semantic.lastCriteria.Limit)
	}

	if _, err := uc.Retrieve(context.Background(), domain.RetrievalRequest{Query: "endgames", Limit: 500}); err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if semantic.lastCriteria.Limit != domain.MaxResultLimit {
		t.Fatalf("Limit = %d, want cap %d", semantic.lastCriteria.Limit, domain.MaxResultLimit)
	}
}

func TestRetrieveCachesResults(t *testing.T) {
	semantic := &fakeExecutor{strategy: StrategySemanticFallback, docs: []domain.RetrievalDocument{gameDoc("g1")}}
	cache := &fakeResultCache{}
	uc := NewRetrieveUseCase([]Executor{semantic}, nil, cache)

	first, err := uc.Retrieve(context.Background(), domain.RetrievalRequest{Query: "endgame technique"})
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	second, err := uc.Retrieve(context.Background(), domain.RetrievalRequest{Query: "endgame technique"})
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}

	if semantic.calls != 1 {
		t.Fatalf("second call must be served from cache, executor ran %d times", semantic.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("cache.Set calls = %d, want 1", cache.sets)
	}
	if len(second.Documents) != len(first.Documents) {
		t.Fatalf("cached result differs: %+v vs %+v", second, first)
	}
}

func TestRetrieveDoesNotCacheErrors(t *testing.T) {
	semantic := &fakeExecutor{
		strategy: StrategySemanticFallback,
		docs: []domain.RetrievalDocument{{
			ID: "e1", Type: domain.DocumentError, Content: map[string]any{"error": "store down"},
		}},
	}
	cache := &fakeResultCache{}
	uc := NewRetrieveUseCase([]Executor{semantic}, nil, cache)

	result, err := uc.Retrieve(context.Background(), domain.RetrievalRequest{Query: "endgames"})
	if err != nil {
		t.Fatalf("store failures surface as documents, not errors: %v", err)
	}
	if result.TotalFound != 0 {
		t.Fatalf("error documents are not content, TotalFound = %d", result.TotalFound)
	}
	if cache.sets != 0 {
		t.Fatalf("error results must not be cached, sets = %d", cache.sets)
	}
}

func TestRetrieveResolvesSessionFEN(t *testing.T) {
	position := &fakeExecutor{strategy: StrategyPositionSearch, docs: []domain.RetrievalDocument{gameDoc("g1")}}
	sessions := &fakeSessionProvider{
		history: []domain.SessionQuery{
			{Query: "who is winning"},
			{Query: "set up the board", FEN: sicilianFEN},
		},
	}
	uc := NewRetrieveUseCase([]Executor{position}, sessions, nil)

	req := domain.RetrievalRequest{Query: "games from this position", SessionID: "s1"}
	if _, err := uc.Retrieve(context.Background(), req); err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if position.calls != 1 {
		t.Fatalf("position executor not invoked; session FEN was not resolved")
	}
	if position.lastCriteria.FENPosition != sicilianFEN {
		t.Fatalf("FENPosition = %q, want session FEN", position.lastCriteria.FENPosition)
	}

	if len(sessions.recorded) != 1 {
		t.Fatalf("history not recorded: %+v", sessions.recorded)
	}
	rec := sessions.recorded[0]
	if rec.SessionID != "s1" || rec.Strategy != StrategyPositionSearch || rec.FEN != sicilianFEN {
		t.Fatalf("unexpected history entry: %+v", rec)
	}
}

func TestRetrieveToleratesSessionFailures(t *testing.T) {
	semantic := &fakeExecutor{strategy: StrategySemanticFallback, docs: []domain.RetrievalDocument{gameDoc("g1")}}
	sessions := &fakeSessionProvider{
		historyErr: errors.New("db down"),
		recordErr:  errors.New("db down"),
	}
	uc := NewRetrieveUseCase([]Executor{semantic}, sessions, nil)

	req := domain.RetrievalRequest{Query: "games from this position", SessionID: "s1"}
	result, err := uc.Retrieve(context.Background(), req)
	if err != nil {
		t.Fatalf("session failures must not fail retrieval: %v", err)
	}
	if result.StrategyUsed != StrategySemanticFallback {
		t.Fatalf("without a resolvable FEN the query degrades to semantic, got %q", result.StrategyUsed)
	}
}
