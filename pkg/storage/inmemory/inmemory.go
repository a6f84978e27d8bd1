// Package inmemory is a map-backed storage.Driver for tests and
// single-process runs.
package inmemory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/papercomputeco/wayfarer/pkg/storage"
)

// Driver implements storage.Driver using in-memory maps.
type Driver struct {
	// mu guards every map below
	mu sync.RWMutex

	chats       map[string]*storage.Chat
	messages    map[string][]*storage.Message
	suggestions map[string][]*storage.SuggestionRecord
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		chats:       make(map[string]*storage.Chat),
		messages:    make(map[string][]*storage.Message),
		suggestions: make(map[string][]*storage.SuggestionRecord),
	}
}

// CreateChat stores a copy of chat.
func (d *Driver) CreateChat(_ context.Context, chat *storage.Chat) error {
	if chat == nil {
		return fmt.Errorf("%w: nil chat", storage.ErrInvalidRecord)
	}
	storage.PrepareChat(chat)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.chats[chat.ID]; ok {
		return fmt.Errorf("%w: chat %s already exists", storage.ErrInvalidRecord, chat.ID)
	}
	c := *chat
	c.ID = strings.Clone(chat.ID)
	d.chats[c.ID] = &c
	return nil
}

// GetChat retrieves a chat by id.
func (d *Driver) GetChat(_ context.Context, id string) (*storage.Chat, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	chat, ok := d.chats[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id}
	}
	c := *chat
	return &c, nil
}

// ListChats returns all chats, newest first.
func (d *Driver) ListChats(_ context.Context) ([]*storage.Chat, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*storage.Chat, 0, len(d.chats))
	for _, chat := range d.chats {
		c := *chat
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *storage.Chat) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// AddMessage appends a message to its chat.
func (d *Driver) AddMessage(_ context.Context, msg *storage.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: nil message", storage.ErrInvalidRecord)
	}
	storage.PrepareMessage(msg)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.chats[msg.ChatID]; !ok {
		return storage.NotFoundError{ID: msg.ChatID}
	}
	m := *msg
	m.ChatID = strings.Clone(msg.ChatID)
	d.messages[m.ChatID] = append(d.messages[m.ChatID], &m)
	return nil
}

// Messages returns the messages of a chat in insertion order.
func (d *Driver) Messages(_ context.Context, chatID string) ([]*storage.Message, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.chats[chatID]; !ok {
		return nil, storage.NotFoundError{ID: chatID}
	}
	out := make([]*storage.Message, 0, len(d.messages[chatID]))
	for _, msg := range d.messages[chatID] {
		m := *msg
		out = append(out, &m)
	}
	return out, nil
}

// SaveSuggestions stores a suggestion record.
func (d *Driver) SaveSuggestions(_ context.Context, rec *storage.SuggestionRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: nil suggestion record", storage.ErrInvalidRecord)
	}
	storage.PrepareSuggestions(rec)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.chats[rec.ChatID]; !ok {
		return storage.NotFoundError{ID: rec.ChatID}
	}
	r := *rec
	r.ChatID = strings.Clone(rec.ChatID)
	r.Items = slices.Clone(rec.Items)
	d.suggestions[r.ChatID] = append(d.suggestions[r.ChatID], &r)
	return nil
}

// Suggestions returns the suggestion records of a chat, oldest first.
func (d *Driver) Suggestions(_ context.Context, chatID string) ([]*storage.SuggestionRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.chats[chatID]; !ok {
		return nil, storage.NotFoundError{ID: chatID}
	}
	out := make([]*storage.SuggestionRecord, 0, len(d.suggestions[chatID]))
	for _, rec := range d.suggestions[chatID] {
		r := *rec
		r.Items = slices.Clone(rec.Items)
		out = append(out, &r)
	}
	return out, nil
}

// Close is a no-op.
func (d *Driver) Close() error {
	return nil
}
