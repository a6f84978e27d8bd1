package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeSuggestionsGenerated is emitted after a suggestion pipeline succeeds.
	EventTypeSuggestionsGenerated = "wayfarer.suggestions.generated"
)

// SuggestionsGeneratedEvent is a transport-neutral event payload for a
// suggestion run.
type SuggestionsGeneratedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	ChatID        string      `json:"chat_id,omitempty"`
	Kind          string      `json:"kind"`
	Items         []string    `json:"items"`
	HistoryTurns  int         `json:"history_turns"`
	DurationMs    int64       `json:"duration_ms"`
}

// EventSource identifies the model that produced the suggestions.
type EventSource struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// NewSuggestionsGeneratedEvent fills in the envelope fields.
func NewSuggestionsGeneratedEvent(kind string, items []string) *SuggestionsGeneratedEvent {
	if items == nil {
		items = []string{}
	}
	return &SuggestionsGeneratedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeSuggestionsGenerated,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Kind:          kind,
		Items:         items,
	}
}
