// Package mcp provides an MCP (Model Context Protocol) server exposing the
// suggestion pipelines as tools.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/wayfarer/pkg/suggest"
	"github.com/papercomputeco/wayfarer/pkg/utils"
)

type Config struct {
	// Service runs the suggestion pipelines behind the tools
	Service *suggest.Service

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the suggestion tools.
func NewServer(c Config) (*Server, error) {
	if c.Service == nil {
		return nil, errors.New("suggestion service is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "wayfarer",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        suggestFunctionsToolName,
		Description: suggestFunctionsDescription,
	}, s.handleSuggestFunctions)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        suggestFollowupsToolName,
		Description: suggestFollowupsDescription,
	}, s.handleSuggestFollowups)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying MCP server, for connecting transports
// other than streamable HTTP.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
