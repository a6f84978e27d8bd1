package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/storage"
)

// CreateChatRequest is the body of POST /api/chats.
type CreateChatRequest struct {
	Title     string `json:"title"`
	FocusMode string `json:"focus_mode"`
}

// AddMessageRequest is the body of POST /api/chats/:id/messages.
type AddMessageRequest struct {
	MessageID string         `json:"message_id,omitempty"`
	Role      llm.Role       `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ChatResponse is a chat with its messages and generated suggestions.
type ChatResponse struct {
	Chat        *storage.Chat               `json:"chat"`
	Messages    []*storage.Message          `json:"messages"`
	Suggestions []*storage.SuggestionRecord `json:"suggestions"`
}

// handleListChats returns all chats, newest first.
func (s *Server) handleListChats(c *fiber.Ctx) error {
	chats, err := s.storer.ListChats(c.UserContext())
	if err != nil {
		s.logger.Error("failed to list chats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list chats"})
	}
	return c.JSON(chats)
}

// handleCreateChat stores a new chat.
func (s *Server) handleCreateChat(c *fiber.Ctx) error {
	var req CreateChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	chat := &storage.Chat{
		Title:     req.Title,
		FocusMode: req.FocusMode,
	}
	if err := s.storer.CreateChat(c.UserContext(), chat); err != nil {
		s.logger.Error("failed to create chat", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to create chat"})
	}

	return c.Status(fiber.StatusCreated).JSON(chat)
}

// handleGetChat returns a chat with its messages and suggestions.
func (s *Server) handleGetChat(c *fiber.Ctx) error {
	// Params aliases the request buffer, which fasthttp reuses.
	id := utils.CopyString(c.Params("id"))
	ctx := c.UserContext()

	chat, err := s.storer.GetChat(ctx, id)
	if err != nil {
		return s.chatError(c, id, err)
	}

	msgs, err := s.storer.Messages(ctx, id)
	if err != nil {
		return s.chatError(c, id, err)
	}

	recs, err := s.storer.Suggestions(ctx, id)
	if err != nil {
		return s.chatError(c, id, err)
	}

	return c.JSON(ChatResponse{
		Chat:        chat,
		Messages:    msgs,
		Suggestions: recs,
	})
}

// handleAddMessage appends a message to a chat.
func (s *Server) handleAddMessage(c *fiber.Ctx) error {
	id := utils.CopyString(c.Params("id"))

	var req AddMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if req.Role != llm.RoleUser && req.Role != llm.RoleAssistant {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "role must be user or assistant"})
	}

	msg := &storage.Message{
		ChatID:    id,
		MessageID: req.MessageID,
		Role:      req.Role,
		Content:   req.Content,
		Metadata:  req.Metadata,
	}
	if err := s.storer.AddMessage(c.UserContext(), msg); err != nil {
		return s.chatError(c, id, err)
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (s *Server) chatError(c *fiber.Ctx, id string, err error) error {
	if storage.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "chat not found"})
	}
	s.logger.Error("chat store failure", "chat_id", id, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to load chat"})
}
