package provider

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/logger"
)

var (
	// ErrUnknownProvider is returned for provider names outside SupportedProviders.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrMissingAPIKey is returned when a hosted provider has no API key
	// in config or the environment.
	ErrMissingAPIKey = errors.New("missing API key")
)

// RegistryConfig holds the configured default provider.
type RegistryConfig struct {
	// Provider and Model are used when a lookup leaves them empty.
	Provider string
	Model    string

	// BaseURL and APIKey apply only to the default provider.
	BaseURL string
	APIKey  string

	// Timeout bounds each HTTP call. Zero means no client-side limit.
	Timeout time.Duration

	Logger *slog.Logger
}

// Registry resolves (provider, model) pairs to shared, cached model handles.
type Registry struct {
	cfg        RegistryConfig
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.Mutex
	handles map[string]llm.Model
}

// NewRegistry creates a Registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	l := cfg.Logger
	if l == nil {
		l = logger.Nop()
	}
	return &Registry{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     l,
		handles:    make(map[string]llm.Model),
	}
}

// Get returns the handle for providerName and model, creating it on first use.
func (r *Registry) Get(providerName, model string) (llm.Model, error) {
	providerName = strings.ToLower(strings.TrimSpace(providerName))
	if providerName == "" {
		providerName = r.cfg.Provider
	}
	if model == "" && providerName == r.cfg.Provider {
		model = r.cfg.Model
	}

	key := providerName + "/" + model

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.handles[key]; ok {
		return m, nil
	}

	s := Settings{Model: model, HTTPClient: r.httpClient}
	if providerName == r.cfg.Provider {
		s.BaseURL = r.cfg.BaseURL
		s.APIKey = r.cfg.APIKey
	}
	if s.APIKey == "" {
		s.APIKey = apiKeyFromEnv(providerName)
	}

	m, err := New(providerName, s)
	if err != nil {
		return nil, err
	}
	if s.APIKey == "" && providerName != Ollama {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingAPIKey, providerName)
	}

	r.logger.Debug("created model handle", "provider", providerName, "model", model)
	r.handles[key] = m
	return m, nil
}

func apiKeyFromEnv(providerName string) string {
	switch providerName {
	case Anthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case OpenAI:
		return os.Getenv("OPENAI_API_KEY")
	default:
		return ""
	}
}
