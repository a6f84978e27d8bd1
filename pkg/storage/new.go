package storage

import (
	"time"

	"github.com/google/uuid"
)

// PrepareChat fills in a chat's generated fields.
func PrepareChat(chat *Chat) {
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
}

// PrepareMessage fills in a message's generated fields.
func PrepareMessage(msg *Message) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
}

// PrepareSuggestions fills in a suggestion record's generated fields.
func PrepareSuggestions(rec *SuggestionRecord) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Items == nil {
		rec.Items = []string{}
	}
}
