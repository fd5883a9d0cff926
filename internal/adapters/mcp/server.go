// Package mcp exposes the retrieval core as MCP tools so chess UIs and
// agents can call it over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/chess-assistant/internal/core/ports"
)

const (
	ServerName    = "chess-assistant"
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the retrieval core.
type Server struct {
	mcp       *server.MCPServer
	retriever ports.Retriever
	assistant ports.Assistant
}

func NewServer(retriever ports.Retriever, assistant ports.Assistant) *Server {
	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		retriever: retriever,
		assistant: assistant,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(_ context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(chessQueryTool(), s.handleChessQuery)
	s.mcp.AddTool(chessAskTool(), s.handleChessAsk)
}
