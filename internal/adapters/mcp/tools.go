package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32001 // Query parameter is empty
)

type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// handleChessQuery handles the chess_query tool invocation
func (s *Server) handleChessQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := parseRetrievalRequest(request)
	if err != nil {
		return nil, err
	}

	result, err := s.retriever.Retrieve(ctx, req)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"documents":         result.Documents,
		"total_found":       result.TotalFound,
		"strategy_used":     result.StrategyUsed,
		"filters_applied":   result.FiltersApplied,
		"execution_time_ms": result.ExecutionTimeMs,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleChessAsk handles the chess_ask tool invocation
func (s *Server) handleChessAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := parseRetrievalRequest(request)
	if err != nil {
		return nil, err
	}

	answer, err := s.assistant.Ask(ctx, req)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "answer generation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"text":    answer.Text,
		"sources": answer.Sources,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

func parseRetrievalRequest(request mcp.CallToolRequest) (domain.RetrievalRequest, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return domain.RetrievalRequest{}, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return domain.RetrievalRequest{}, newMCPError(ErrorCodeEmptyQuery, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	currentFEN, _ := args["current_fen"].(string)
	sessionID, _ := args["session_id"].(string)

	req := domain.RetrievalRequest{
		Query:      query,
		CurrentFEN: currentFEN,
		SessionID:  sessionID,
	}
	if limit := getIntDefault(args, "limit", 0); limit > 0 {
		req.Limit = limit
	}
	return req, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	return defaultValue
}
