package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/wayfarer/api/mcp"
	"github.com/papercomputeco/wayfarer/pkg/storage"
	"github.com/papercomputeco/wayfarer/pkg/suggest"
	"github.com/papercomputeco/wayfarer/pkg/worker"
)

// Server is the API server for the suggestion pipelines and chat store.
type Server struct {
	config  Config
	service *suggest.Service
	storer  storage.Driver
	pool    *worker.Pool
	logger  *slog.Logger
	app     *fiber.App
}

// NewServer creates a new API server.
// The storer and pool are injected so they can be shared with other
// components. pool may be nil, in which case results are not recorded.
func NewServer(config Config, service *suggest.Service, storer storage.Driver, pool *worker.Pool, logger *slog.Logger) (*Server, error) {
	if service == nil {
		return nil, errors.New("suggestion service is required")
	}
	if storer == nil {
		return nil, errors.New("storage driver is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Service: service,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		service: service,
		storer:  storer,
		pool:    pool,
		logger:  logger,
		app:     app,
	}

	app.Get("/api/health", s.handleHealth)

	app.Post("/api/functions", s.handleFunctions)
	app.Get("/api/functions/catalog", s.handleCatalog)
	app.Post("/api/suggestions", s.handleSuggestions)

	app.Get("/api/chats", s.handleListChats)
	app.Post("/api/chats", s.handleCreateChat)
	app.Get("/api/chats/:id", s.handleGetChat)
	app.Post("/api/chats/:id/messages", s.handleAddMessage)

	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
