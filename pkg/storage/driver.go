// Package storage
package storage

import (
	"context"
	"time"

	"github.com/papercomputeco/wayfarer/pkg/llm"
)

// Chat is a persisted conversation.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	FocusMode string    `json:"focus_mode"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one turn of a persisted conversation.
type Message struct {
	// ID is the storage row identifier.
	ID string `json:"id"`

	ChatID string `json:"chat_id"`

	// MessageID is the client-side identifier of the message, if any.
	MessageID string `json:"message_id,omitempty"`

	Role      llm.Role       `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// SuggestionRecord is a suggestion list generated for a chat.
type SuggestionRecord struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Kind      string    `json:"kind"`
	Items     []string  `json:"items"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Driver defines the interface for persisting chats, their messages and
// the suggestions generated for them.
type Driver interface {
	// CreateChat stores a new chat. Empty ID and CreatedAt are filled in.
	CreateChat(ctx context.Context, chat *Chat) error

	// GetChat retrieves a chat by id. Returns NotFoundError if missing.
	GetChat(ctx context.Context, id string) (*Chat, error)

	// ListChats returns all chats, newest first.
	ListChats(ctx context.Context) ([]*Chat, error)

	// AddMessage appends a message to its chat. Empty ID and CreatedAt are
	// filled in. Returns NotFoundError if the chat does not exist.
	AddMessage(ctx context.Context, msg *Message) error

	// Messages returns the messages of a chat in insertion order.
	Messages(ctx context.Context, chatID string) ([]*Message, error)

	// SaveSuggestions stores a suggestion record. Returns NotFoundError if
	// the chat does not exist.
	SaveSuggestions(ctx context.Context, rec *SuggestionRecord) error

	// Suggestions returns the suggestion records of a chat, oldest first.
	Suggestions(ctx context.Context, chatID string) ([]*SuggestionRecord, error)

	// Close closes the store and releases any resources.
	Close() error
}

// History converts stored messages into chat turns.
func History(msgs []*Message) []llm.ChatTurn {
	turns := make([]llm.ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, llm.ChatTurn{Role: m.Role, Content: m.Content})
	}
	return turns
}
