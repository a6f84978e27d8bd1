// Package openai is an llm.Model backed by OpenAI's Chat Completions API.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/llm/provider/internal/postjson"
)

const (
	Name           = "openai"
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o-mini"
)

// Client calls the Chat Completions endpoint. It holds no per-call state
// and is safe for concurrent use.
type Client struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
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

// SupportsTemperature reports false for the o-series reasoning models,
// which reject the temperature parameter.
func (c *Client) SupportsTemperature() bool {
	return !(strings.HasPrefix(c.model, "o1") ||
		strings.HasPrefix(c.model, "o3") ||
		strings.HasPrefix(c.model, "o4"))
}

// Invoke sends prompt as a single user message.
func (c *Client) Invoke(ctx context.Context, prompt string, params llm.CallParams) (string, error) {
	req := openaiRequest{
		Model:       c.model,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
		Temperature: params.Temperature,
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = &params.MaxTokens
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var resp openaiResponse
	if err := postjson.Do(ctx, c.httpClient, c.baseURL+"/v1/chat/completions", headers, req, &resp); err != nil {
		return "", c.invocationError(err)
	}

	if resp.Error != nil {
		return "", c.invocationError(errors.New(resp.Error.Message))
	}
	if len(resp.Choices) == 0 {
		return "", c.invocationError(llm.ErrEmptyReply)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) invocationError(err error) error {
	ie := &llm.InvocationError{Provider: Name, Model: c.model, Err: err}
	var se *postjson.StatusError
	if errors.As(err, &se) {
		ie.StatusCode = se.StatusCode
	}
	return ie
}
