// Package qdrant implements the store-client boundary against the qdrant
// HTTP API. Predicates translate to qdrant filter clauses; near-text search
// embeds the query first and runs a vector search.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
	"github.com/kirillkom/chess-assistant/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	embedder   ports.Embedder
	executor   *resilience.Executor
}

func New(baseURL string, embedder ports.Embedder, executor *resilience.Executor, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		embedder:   embedder,
		executor:   executor,
	}
}

func (c *Client) FetchByPredicate(ctx context.Context, collection string, predicate domain.Predicate, limit int) ([]domain.StoreRecord, error) {
	if limit <= 0 {
		limit = domain.DefaultResultLimit
	}
	reqBody := map[string]any{
		"limit":        limit,
		"with_payload": true,
	}
	if filter := buildFilter(predicate); filter != nil {
		reqBody["filter"] = filter
	}

	var records []domain.StoreRecord
	err := c.execute(ctx, "qdrant_scroll", func(ctx context.Context) error {
		var scrollResp struct {
			Result struct {
				Points []struct {
					ID      any            `json:"id"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
			} `json:"result"`
		}
		if err := c.post(ctx, fmt.Sprintf("/collections/%s/points/scroll", collection), reqBody, &scrollResp); err != nil {
			return err
		}
		records = records[:0]
		for _, point := range scrollResp.Result.Points {
			records = append(records, domain.StoreRecord{
				ID:      idString(point.ID),
				Payload: point.Payload,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) NearTextSearch(ctx context.Context, collection, text string, limit int) ([]domain.StoreRecord, error) {
	if limit <= 0 {
		limit = domain.DefaultResultLimit
	}
	vector, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	reqBody := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}

	var records []domain.StoreRecord
	err = c.execute(ctx, "qdrant_search", func(ctx context.Context) error {
		var searchResp struct {
			Result []struct {
				ID      any            `json:"id"`
				Score   float64        `json:"score"`
				Payload map[string]any `json:"payload"`
			} `json:"result"`
		}
		if err := c.post(ctx, fmt.Sprintf("/collections/%s/points/search", collection), reqBody, &searchResp); err != nil {
			return err
		}
		records = records[:0]
		for _, hit := range searchResp.Result {
			records = append(records, domain.StoreRecord{
				ID:      idString(hit.ID),
				Score:   hit.Score,
				Payload: hit.Payload,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) FetchByID(ctx context.Context, collection, id string) (domain.StoreRecord, error) {
	reqBody := map[string]any{
		"ids":          []string{id},
		"with_payload": true,
	}

	var record domain.StoreRecord
	err := c.execute(ctx, "qdrant_retrieve", func(ctx context.Context) error {
		var retrieveResp struct {
			Result []struct {
				ID      any            `json:"id"`
				Payload map[string]any `json:"payload"`
			} `json:"result"`
		}
		if err := c.post(ctx, fmt.Sprintf("/collections/%s/points", collection), reqBody, &retrieveResp); err != nil {
			return err
		}
		if len(retrieveResp.Result) == 0 {
			return domain.WrapError(domain.ErrNotFound, "qdrant retrieve", fmt.Errorf("point %s", id))
		}
		record = domain.StoreRecord{
			ID:      idString(retrieveResp.Result[0].ID),
			Payload: retrieveResp.Result[0].Payload,
		}
		return nil
	})
	if err != nil {
		return domain.StoreRecord{}, err
	}
	return record, nil
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return fn(ctx)
	}
	return c.executor.Execute(ctx, operation, fn, resilience.TransientClassifier)
}

func (c *Client) post(ctx context.Context, path string, reqBody any, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrStoreUnavailable, "qdrant request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		statusErr := fmt.Errorf("qdrant status %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
		if resp.StatusCode == http.StatusNotFound {
			return domain.WrapError(domain.ErrNotFound, "qdrant request", statusErr)
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return domain.WrapError(domain.ErrStoreUnavailable, "qdrant request", statusErr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// idString renders a qdrant point ID, which may arrive as string or number.
func idString(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
