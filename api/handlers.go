package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/wayfarer/pkg/suggest"
)

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok"})
}

// handleCatalog returns the functions the assistant can suggest.
func (s *Server) handleCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"functions": s.service.Catalog().Functions()})
}

// handleFunctions suggests catalog functions for a conversation.
func (s *Server) handleFunctions(c *fiber.Ctx) error {
	return s.handleSuggest(c, suggest.KindFunctions, "functions")
}

// handleSuggestions suggests follow-up questions for a conversation.
func (s *Server) handleSuggestions(c *fiber.Ctx) error {
	return s.handleSuggest(c, suggest.KindFollowups, "suggestions")
}
