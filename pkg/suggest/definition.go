package suggest

import (
	"context"

	"github.com/papercomputeco/wayfarer/pkg/chain"
	"github.com/papercomputeco/wayfarer/pkg/llm"
)

// Pipeline names.
const (
	KindFunctions = "functions"
	KindFollowups = "followups"
)

// HistoryInput is the placeholder every template receives the formatted
// conversation under.
const HistoryInput = "chat_history"

// Definition describes one suggestion type. Adding a suggestion type
// means adding a Definition; the chain shape is shared.
type Definition struct {
	// Name identifies the pipeline and its template override file.
	Name string

	// Template is the built-in prompt.
	Template string

	// Tag is the marker the model is asked to wrap its list in.
	Tag string

	// Inputs are extra fan-out branches rendered next to chat_history.
	Inputs map[string]chain.Stage[[]llm.ChatTurn, string]
}

// FunctionSuggestions suggests 2-3 catalog functions for the conversation.
func FunctionSuggestions(catalog *Catalog) Definition {
	return Definition{
		Name:     KindFunctions,
		Template: functionsPrompt,
		Tag:      "functions",
		Inputs: map[string]chain.Stage[[]llm.ChatTurn, string]{
			"functions": func(context.Context, []llm.ChatTurn) (string, error) {
				return catalog.Describe(), nil
			},
		},
	}
}

// FollowupSuggestions suggests 4-5 follow-up questions.
func FollowupSuggestions() Definition {
	return Definition{
		Name:     KindFollowups,
		Template: followupsPrompt,
		Tag:      "suggestions",
	}
}
