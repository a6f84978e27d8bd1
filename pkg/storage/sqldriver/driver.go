// Package sqldriver implements storage.Driver on database/sql. Statements
// are built with ent's dialect-aware SQL builder so the same code serves
// SQLite and PostgreSQL; the sqlite and postgres packages open the
// connection and embed Driver.
package sqldriver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/storage"
)

// Driver provides storage operations over a *sql.DB.
type Driver struct {
	db      *sql.DB
	dialect string
}

// New wraps db and creates any missing tables. dialect is one of ent's
// dialect names (dialect.SQLite, dialect.Postgres).
func New(ctx context.Context, db *sql.DB, dialect string) (*Driver, error) {
	d := &Driver{db: db, dialect: dialect}
	if err := d.migrate(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// DB returns the underlying connection pool.
func (d *Driver) DB() *sql.DB { return d.db }

func (d *Driver) builder() *entsql.DialectBuilder {
	return entsql.Dialect(d.dialect)
}

// CreateChat stores a new chat.
func (d *Driver) CreateChat(ctx context.Context, chat *storage.Chat) error {
	if chat == nil {
		return fmt.Errorf("%w: nil chat", storage.ErrInvalidRecord)
	}
	storage.PrepareChat(chat)

	query, args := d.builder().Insert(chatsTable).
		Columns("id", "title", "focus_mode", "created_at").
		Values(chat.ID, chat.Title, chat.FocusMode, chat.CreatedAt).
		Query()
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}
	return nil
}

// GetChat retrieves a chat by id.
func (d *Driver) GetChat(ctx context.Context, id string) (*storage.Chat, error) {
	b := d.builder()
	query, args := b.Select("id", "title", "focus_mode", "created_at").
		From(b.Table(chatsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var c storage.Chat
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Title, &c.FocusMode, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &c, nil
}

// ListChats returns all chats, newest first.
func (d *Driver) ListChats(ctx context.Context) ([]*storage.Chat, error) {
	b := d.builder()
	query, args := b.Select("id", "title", "focus_mode", "created_at").
		From(b.Table(chatsTable)).
		OrderBy(entsql.Desc("created_at")).
		Query()

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	chats := []*storage.Chat{}
	for rows.Next() {
		var c storage.Chat
		if err := rows.Scan(&c.ID, &c.Title, &c.FocusMode, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, &c)
	}
	return chats, rows.Err()
}

// AddMessage appends a message to its chat.
func (d *Driver) AddMessage(ctx context.Context, msg *storage.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: nil message", storage.ErrInvalidRecord)
	}
	if err := d.requireChat(ctx, msg.ChatID); err != nil {
		return err
	}
	storage.PrepareMessage(msg)

	var metadata sql.NullString
	if len(msg.Metadata) > 0 {
		data, err := json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}

	query, args := d.builder().Insert(messagesTable).
		Columns("id", "chat_id", "message_id", "role", "content", "metadata", "created_at").
		Values(msg.ID, msg.ChatID, msg.MessageID, string(msg.Role), msg.Content, metadata, msg.CreatedAt).
		Query()
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Messages returns the messages of a chat in insertion order.
func (d *Driver) Messages(ctx context.Context, chatID string) ([]*storage.Message, error) {
	if err := d.requireChat(ctx, chatID); err != nil {
		return nil, err
	}

	b := d.builder()
	query, args := b.Select("id", "chat_id", "message_id", "role", "content", "metadata", "created_at").
		From(b.Table(messagesTable)).
		Where(entsql.EQ("chat_id", chatID)).
		OrderBy(entsql.Asc("created_at")).
		Query()

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	msgs := []*storage.Message{}
	for rows.Next() {
		var (
			m        storage.Message
			role     string
			metadata sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.ChatID, &m.MessageID, &role, &m.Content, &metadata, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = llm.Role(role)
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &m.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

// SaveSuggestions stores a suggestion record.
func (d *Driver) SaveSuggestions(ctx context.Context, rec *storage.SuggestionRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: nil suggestion record", storage.ErrInvalidRecord)
	}
	if err := d.requireChat(ctx, rec.ChatID); err != nil {
		return err
	}
	storage.PrepareSuggestions(rec)

	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	query, args := d.builder().Insert(suggestionsTable).
		Columns("id", "chat_id", "kind", "items", "provider", "model", "created_at").
		Values(rec.ID, rec.ChatID, rec.Kind, string(items), rec.Provider, rec.Model, rec.CreatedAt).
		Query()
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert suggestions: %w", err)
	}
	return nil
}

// Suggestions returns the suggestion records of a chat, oldest first.
func (d *Driver) Suggestions(ctx context.Context, chatID string) ([]*storage.SuggestionRecord, error) {
	if err := d.requireChat(ctx, chatID); err != nil {
		return nil, err
	}

	b := d.builder()
	query, args := b.Select("id", "chat_id", "kind", "items", "provider", "model", "created_at").
		From(b.Table(suggestionsTable)).
		Where(entsql.EQ("chat_id", chatID)).
		OrderBy(entsql.Asc("created_at")).
		Query()

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	recs := []*storage.SuggestionRecord{}
	for rows.Next() {
		var (
			r     storage.SuggestionRecord
			items string
		)
		if err := rows.Scan(&r.ID, &r.ChatID, &r.Kind, &items, &r.Provider, &r.Model, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suggestions: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &r.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		recs = append(recs, &r)
	}
	return recs, rows.Err()
}

// Close closes the database connection.
func (d *Driver) Close() error {
	return d.db.Close()
}

func (d *Driver) requireChat(ctx context.Context, id string) error {
	b := d.builder()
	query, args := b.Select("id").
		From(b.Table(chatsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var found string
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.NotFoundError{ID: id}
	}
	if err != nil {
		return fmt.Errorf("failed to look up chat: %w", err)
	}
	return nil
}
