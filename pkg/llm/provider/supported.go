package provider

import (
	"fmt"
	"net/http"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/llm/provider/anthropic"
	"github.com/papercomputeco/wayfarer/pkg/llm/provider/ollama"
	"github.com/papercomputeco/wayfarer/pkg/llm/provider/openai"
)

// Supported provider type constants
const (
	Anthropic = anthropic.Name
	OpenAI    = openai.Name
	Ollama    = ollama.Name
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{Anthropic, OpenAI, Ollama}
}

// Settings describes how to reach one provider.
type Settings struct {
	Model      string
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// New creates a model handle for the given provider type.
// Returns an error wrapping ErrUnknownProvider if the provider type is not recognized.
func New(providerType string, s Settings) (llm.Model, error) {
	switch providerType {
	case Anthropic:
		return anthropic.New(s.Model,
			anthropic.WithBaseURL(s.BaseURL),
			anthropic.WithAPIKey(s.APIKey),
			anthropic.WithHTTPClient(s.HTTPClient),
		), nil
	case OpenAI:
		return openai.New(s.Model,
			openai.WithBaseURL(s.BaseURL),
			openai.WithAPIKey(s.APIKey),
			openai.WithHTTPClient(s.HTTPClient),
		), nil
	case Ollama:
		return ollama.New(s.Model,
			ollama.WithBaseURL(s.BaseURL),
			ollama.WithHTTPClient(s.HTTPClient),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownProvider, providerType, SupportedProviders())
	}
}
