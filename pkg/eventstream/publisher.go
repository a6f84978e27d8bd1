package eventstream

import "context"

// Publisher publishes suggestion events to an event stream backend.
type Publisher interface {
	PublishSuggestions(ctx context.Context, event *SuggestionsGeneratedEvent) error
	Close() error
}
