// Package mcp exposes the review search pipeline over the Model
// Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/btholt/rag-on-azure/application/service"
)

// Server wraps the MCP server with review search tools.
type Server struct {
	mcpServer *server.MCPServer
	retrieval *service.RetrievalService
	rag       *service.RAGService
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(retrieval *service.RetrievalService, rag *service.RAGService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		retrieval: retrieval,
		rag:       rag,
		logger:    logger,
	}

	mcpServer := server.NewMCPServer(
		"reviewrag",
		"0.1.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	searchTool := mcp.NewTool("search_reviews",
		mcp.WithDescription("Search music reviews by semantic similarity"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
	)
	mcpServer.AddTool(searchTool, s.handleSearchReviews)

	recommendTool := mcp.NewTool("recommend_music",
		mcp.WithDescription("Get music recommendations grounded in review data"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("A description of the music you are looking for"),
		),
	)
	mcpServer.AddTool(recommendTool, s.handleRecommendMusic)
}

// handleSearchReviews handles the search_reviews tool invocation.
func (s *Server) handleSearchReviews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	qc, err := s.retrieval.Retrieve(ctx, query)
	if err != nil {
		s.logger.Error("review search failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	type searchResult struct {
		ReviewID   string  `json:"reviewid"`
		Artist     string  `json:"artist"`
		Album      string  `json:"album"`
		Score      float64 `json:"score"`
		Similarity float64 `json:"similarity"`
	}

	matches := qc.Results()
	results := make([]searchResult, len(matches))
	for i, match := range matches {
		results[i] = searchResult{
			ReviewID:   match.ReviewID(),
			Artist:     match.Artist(),
			Album:      match.Title(),
			Score:      match.Score(),
			Similarity: match.Similarity(),
		}
	}

	jsonBytes, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleRecommendMusic handles the recommend_music tool invocation.
func (s *Server) handleRecommendMusic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	answer, _, err := s.rag.Answer(ctx, query)
	if err != nil {
		s.logger.Error("recommendation failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}

	return mcp.NewToolResultText(answer), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
