package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/suggest"
)

var (
	suggestFunctionsToolName    = "suggest_functions"
	suggestFunctionsDescription = "Suggest which assistant functions (such as showImages, analyzeReviews or bookRoom) fit the conversation so far. Returns function names."

	suggestFollowupsToolName    = "suggest_followups"
	suggestFollowupsDescription = "Suggest follow-up questions the user could ask next, based on the conversation so far."
)

// Turn is one message of the conversation passed to a tool.
type Turn struct {
	Role    string `json:"role" jsonschema:"speaker of the turn: user or assistant"`
	Content string `json:"content" jsonschema:"text of the turn"`
}

// SuggestInput represents the input arguments for both suggestion tools.
type SuggestInput struct {
	History  []Turn `json:"history" jsonschema:"the conversation so far, oldest turn first"`
	Provider string `json:"provider,omitempty" jsonschema:"LLM provider to use (default: configured provider)"`
	Model    string `json:"model,omitempty" jsonschema:"LLM model to use (default: configured model)"`
}

// SuggestOutput represents the output of a suggestion tool.
type SuggestOutput struct {
	Kind  string   `json:"kind"`
	Items []string `json:"items"`
	Count int      `json:"count"`
}

func (s *Server) handleSuggestFunctions(ctx context.Context, _ *mcp.CallToolRequest, input SuggestInput) (*mcp.CallToolResult, SuggestOutput, error) {
	return s.suggest(ctx, suggest.KindFunctions, input)
}

func (s *Server) handleSuggestFollowups(ctx context.Context, _ *mcp.CallToolRequest, input SuggestInput) (*mcp.CallToolResult, SuggestOutput, error) {
	return s.suggest(ctx, suggest.KindFollowups, input)
}

// suggest runs one pipeline. Failures are reported as tool errors, not
// protocol errors, and carry only a generic message; the cause is logged.
func (s *Server) suggest(ctx context.Context, kind string, input SuggestInput) (*mcp.CallToolResult, SuggestOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP suggest request",
		"kind", kind,
		"turns", len(input.History),
		"provider", input.Provider,
		"model", input.Model,
	)

	items, err := s.config.Service.Run(ctx, kind, suggest.Request{
		History:  toChatTurns(input.History),
		Provider: input.Provider,
		Model:    input.Model,
	})
	if err != nil {
		logger.Error("suggestion run failed", "kind", kind, "error", err)
		if errors.Is(err, suggest.ErrInvalidModel) {
			return toolError("Invalid LLM model selected"), SuggestOutput{}, nil
		}
		return toolError("An error has occurred."), SuggestOutput{}, nil
	}

	output := SuggestOutput{
		Kind:  kind,
		Items: items,
		Count: len(items),
	}

	// Structured output is mirrored as JSON text for clients that only
	// read content blocks.
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal suggestion output", "error", err)
		return toolError("An error has occurred."), SuggestOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}

func toChatTurns(turns []Turn) []llm.ChatTurn {
	out := make([]llm.ChatTurn, 0, len(turns))
	for _, t := range turns {
		out = append(out, llm.ChatTurn{Role: llm.Role(t.Role), Content: t.Content})
	}
	return out
}
