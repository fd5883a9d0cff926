package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// chessQueryTool returns the tool definition for chess_query
func chessQueryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chess_query",
		Description: "Retrieve chess games and lessons matching a natural-language query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language query, e.g. 'Carlsen games in the Sicilian above 2700'",
				},
				"current_fen": map[string]interface{}{
					"type":        "string",
					"description": "FEN of the board currently shown to the user, used when the query says 'this position'",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable conversation identifier for follow-up queries",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of documents to return (1-100)",
					"default":     25,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// chessAskTool returns the tool definition for chess_ask
func chessAskTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chess_ask",
		Description: "Answer a chess question in natural language from retrieved games and lessons",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"current_fen": map[string]interface{}{
					"type":        "string",
					"description": "FEN of the board currently shown to the user",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable conversation identifier for follow-up questions",
				},
			},
			Required: []string{"query"},
		},
	}
}
