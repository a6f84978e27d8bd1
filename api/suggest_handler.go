package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/storage"
	"github.com/papercomputeco/wayfarer/pkg/suggest"
	"github.com/papercomputeco/wayfarer/pkg/worker"
)

// SuggestRequest is the body of the suggestion routes.
type SuggestRequest struct {
	ChatHistory       []llm.ChatTurn `json:"chat_history"`
	ChatModel         string         `json:"chat_model"`
	ChatModelProvider string         `json:"chat_model_provider"`

	// ChatID links the request to a stored chat. When ChatHistory is empty
	// the history is loaded from that chat's messages.
	ChatID string `json:"chat_id,omitempty"`
}

func (s *Server) handleSuggest(c *fiber.Ctx, kind, field string) error {
	var req SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	ctx := c.UserContext()
	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	history := req.ChatHistory
	if len(history) == 0 && req.ChatID != "" {
		msgs, err := s.storer.Messages(ctx, req.ChatID)
		if err != nil {
			if storage.IsNotFound(err) {
				return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "chat not found"})
			}
			s.logger.Error("failed to load chat history", "chat_id", req.ChatID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to load chat history"})
		}
		history = storage.History(msgs)
	}

	start := time.Now()
	items, err := s.service.Run(ctx, kind, suggest.Request{
		History:  history,
		Provider: req.ChatModelProvider,
		Model:    req.ChatModel,
	})
	if err != nil {
		if errors.Is(err, suggest.ErrInvalidModel) {
			s.logger.Error("invalid model selected",
				"provider", req.ChatModelProvider,
				"model", req.ChatModel,
				"error", err,
			)
			return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "Invalid LLM model selected"})
		}
		s.logger.Error("error generating suggestions", "kind", kind, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "An error has occurred."})
	}
	if items == nil {
		items = []string{}
	}

	if s.pool != nil {
		s.pool.Enqueue(worker.Job{
			ChatID:       req.ChatID,
			Kind:         kind,
			Items:        items,
			Provider:     req.ChatModelProvider,
			Model:        req.ChatModel,
			HistoryTurns: len(history),
			Duration:     time.Since(start),
		})
	}

	return c.JSON(fiber.Map{field: items})
}
