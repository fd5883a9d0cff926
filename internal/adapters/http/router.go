// Package httpadapter exposes the retrieval core over a small JSON API.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
	"github.com/kirillkom/chess-assistant/internal/observability/metrics"
)

type Router struct {
	retriever ports.Retriever
	assistant ports.Assistant
	metrics   *metrics.HTTPServerMetrics
	service   string
}

func NewRouter(retriever ports.Retriever, assistant ports.Assistant, m *metrics.HTTPServerMetrics, service string) *Router {
	return &Router{
		retriever: retriever,
		assistant: assistant,
		metrics:   m,
		service:   service,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/retrieve", rt.retrieve)
	mux.HandleFunc("/v1/ask", rt.ask)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return observe(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type retrievalRequestBody struct {
	Query      string `json:"query"`
	CurrentFEN string `json:"current_fen"`
	SessionID  string `json:"session_id"`

	Hints *filterHints `json:"hints,omitempty"`
}

// filterHints is the optional structured bypass of the query parser.
type filterHints struct {
	WhitePlayer  string `json:"white_player,omitempty"`
	BlackPlayer  string `json:"black_player,omitempty"`
	AnyPlayer    string `json:"any_player,omitempty"`
	WhiteEloMin  *int   `json:"white_elo_min,omitempty"`
	WhiteEloMax  *int   `json:"white_elo_max,omitempty"`
	BlackEloMin  *int   `json:"black_elo_min,omitempty"`
	BlackEloMax  *int   `json:"black_elo_max,omitempty"`
	ECOCode      string `json:"eco_code,omitempty"`
	OpeningName  string `json:"opening_name,omitempty"`
	FENPosition  string `json:"fen_position,omitempty"`
	Event        string `json:"event,omitempty"`
	Site         string `json:"site,omitempty"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
	Year         int    `json:"year,omitempty"`
	Result       string `json:"result,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

func (rt *Router) retrieve(w http.ResponseWriter, r *http.Request) {
	req, ok := rt.decodeRetrievalRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := rt.retriever.Retrieve(r.Context(), req)
	if err != nil {
		requestLogger(r.Context()).Warn("retrieve_failed", "error", err)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	rt.recordRetrieval(result, time.Since(start))

	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	req, ok := rt.decodeRetrievalRequest(w, r)
	if !ok {
		return
	}

	answer, err := rt.assistant.Ask(r.Context(), req)
	if err != nil {
		requestLogger(r.Context()).Warn("ask_failed", "error", err)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) decodeRetrievalRequest(w http.ResponseWriter, r *http.Request) (domain.RetrievalRequest, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return domain.RetrievalRequest{}, false
	}

	var body retrievalRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return domain.RetrievalRequest{}, false
	}
	if strings.TrimSpace(body.Query) == "" && body.Hints == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query or hints are required"})
		return domain.RetrievalRequest{}, false
	}

	return domain.RetrievalRequest{
		Query:      body.Query,
		CurrentFEN: body.CurrentFEN,
		SessionID:  body.SessionID,
		Hints:      body.Hints.toCriteria(),
	}, true
}

func (h *filterHints) toCriteria() *domain.FilterCriteria {
	if h == nil {
		return nil
	}
	return &domain.FilterCriteria{
		WhitePlayer: h.WhitePlayer,
		BlackPlayer: h.BlackPlayer,
		AnyPlayer:   h.AnyPlayer,
		WhiteEloMin: h.WhiteEloMin,
		WhiteEloMax: h.WhiteEloMax,
		BlackEloMin: h.BlackEloMin,
		BlackEloMax: h.BlackEloMax,
		ECOCode:     h.ECOCode,
		OpeningName: h.OpeningName,
		FENPosition: h.FENPosition,
		Event:       h.Event,
		Site:        h.Site,
		DateFrom:    h.DateFrom,
		DateTo:      h.DateTo,
		Year:        h.Year,
		Result:      domain.GameResult(h.Result),
		Limit:       h.Limit,
	}
}

func (rt *Router) recordRetrieval(result *domain.RetrievalResult, elapsed time.Duration) {
	if rt.metrics == nil || result == nil {
		return
	}
	rt.metrics.RecordRetrieval(rt.service, result.StrategyUsed, len(result.Documents), elapsed)
	for _, doc := range result.Documents {
		rt.metrics.RecordFENMatch(rt.service, doc.FENMatchType)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
