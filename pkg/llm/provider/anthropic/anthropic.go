// Package anthropic is an llm.Model backed by Anthropic's Messages API.
package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/llm/provider/internal/postjson"
)

const (
	Name             = "anthropic"
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-haiku-4-5-20251001"
	DefaultMaxTokens = 1024

	apiVersion = "2023-06-01"
)

// Client calls the Messages endpoint. It is safe for concurrent use.
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

// WithAPIKey sets the x-api-key header value.
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

// SupportsTemperature is always true for Claude models.
func (c *Client) SupportsTemperature() bool { return true }

// Invoke sends prompt as a single user message and concatenates the
// text blocks of the reply.
func (c *Client) Invoke(ctx context.Context, prompt string, params llm.CallParams) (string, error) {
	req := anthropicRequest{
		Model:       c.model,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens:   DefaultMaxTokens,
		Temperature: params.Temperature,
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = params.MaxTokens
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": apiVersion,
	}

	var resp anthropicResponse
	if err := postjson.Do(ctx, c.httpClient, c.baseURL+"/v1/messages", headers, req, &resp); err != nil {
		return "", c.invocationError(err)
	}

	if resp.Error != nil {
		return "", c.invocationError(errors.New(resp.Error.Message))
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", c.invocationError(llm.ErrEmptyReply)
	}

	return sb.String(), nil
}

func (c *Client) invocationError(err error) error {
	ie := &llm.InvocationError{Provider: Name, Model: c.model, Err: err}
	var se *postjson.StatusError
	if errors.As(err, &se) {
		ie.StatusCode = se.StatusCode
	}
	return ie
}
