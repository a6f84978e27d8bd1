// Package ollama is an llm.Model backed by a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/llm/provider/internal/postjson"
)

const (
	Name           = "ollama"
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
)

// Client calls Ollama's chat endpoint with streaming disabled.
type Client struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the server URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a Client for model.
func New(model string, opts ...Option) *Client {
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		model:      model,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model name.
func (c *Client) Model() string { return c.model }

// SupportsTemperature is true; Ollama accepts temperature in options.
func (c *Client) SupportsTemperature() bool { return true }

// Invoke sends prompt as a single user message.
func (c *Client) Invoke(ctx context.Context, prompt string, params llm.CallParams) (string, error) {
	req := ollamaRequest{
		Model:    c.model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}
	if params.Temperature != nil || params.MaxTokens > 0 {
		req.Options = &ollamaOptions{Temperature: params.Temperature}
		if params.MaxTokens > 0 {
			req.Options.NumPredict = &params.MaxTokens
		}
	}

	var resp ollamaResponse
	if err := postjson.Do(ctx, c.httpClient, c.baseURL+"/api/chat", nil, req, &resp); err != nil {
		return "", c.invocationError(err)
	}

	if resp.Error != "" {
		return "", c.invocationError(errors.New(resp.Error))
	}
	if resp.Message.Content == "" {
		return "", c.invocationError(llm.ErrEmptyReply)
	}

	return resp.Message.Content, nil
}

func (c *Client) invocationError(err error) error {
	ie := &llm.InvocationError{Provider: Name, Model: c.model, Err: err}
	var se *postjson.StatusError
	if errors.As(err, &se) {
		ie.StatusCode = se.StatusCode
	}
	return ie
}
