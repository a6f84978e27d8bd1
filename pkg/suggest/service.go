package suggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/logger"
)

// ErrInvalidModel is returned when the requested provider/model pair
// cannot be resolved to a model handle.
var ErrInvalidModel = errors.New("invalid LLM model selected")

// ModelResolver returns shared model handles. provider.Registry
// implements it.
type ModelResolver interface {
	Get(provider, model string) (llm.Model, error)
}

// Request is one suggestion request.
type Request struct {
	History  []llm.ChatTurn
	Provider string
	Model    string
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Models  ModelResolver
	Catalog *Catalog

	// FunctionLimit and FollowupLimit cap result lengths. Zero means no cap.
	FunctionLimit int
	FollowupLimit int

	Strict    bool
	Templates *TemplateSet
	Logger    *slog.Logger
}

// Service runs the function and follow-up pipelines for callers such as
// the HTTP API, the MCP tools and the CLI.
type Service struct {
	models    ModelResolver
	catalog   *Catalog
	functions *Pipeline
	followups *Pipeline

	functionLimit int
	followupLimit int

	logger *slog.Logger
}

// NewService builds a Service.
func NewService(cfg ServiceConfig) *Service {
	l := cfg.Logger
	if l == nil {
		l = logger.Nop()
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	opts := []Option{
		WithStrict(cfg.Strict),
		WithTemplates(cfg.Templates),
		WithLogger(l),
	}

	return &Service{
		models:        cfg.Models,
		catalog:       catalog,
		functions:     New(FunctionSuggestions(catalog), opts...),
		followups:     New(FollowupSuggestions(), opts...),
		functionLimit: cfg.FunctionLimit,
		followupLimit: cfg.FollowupLimit,
		logger:        l,
	}
}

// Catalog returns the function catalog.
func (s *Service) Catalog() *Catalog { return s.catalog }

// Functions suggests catalog functions. Names the catalog does not know
// are dropped.
func (s *Service) Functions(ctx context.Context, req Request) ([]string, error) {
	items, err := s.run(ctx, s.functions, req)
	if err != nil {
		return nil, err
	}

	known := s.catalog.Filter(items)
	if dropped := len(items) - len(known); dropped > 0 {
		s.logger.Debug("dropped unknown function suggestions", "dropped", dropped)
	}
	return capItems(known, s.functionLimit), nil
}

// Followups suggests follow-up questions.
func (s *Service) Followups(ctx context.Context, req Request) ([]string, error) {
	items, err := s.run(ctx, s.followups, req)
	if err != nil {
		return nil, err
	}
	return capItems(items, s.followupLimit), nil
}

// Run dispatches on kind (KindFunctions or KindFollowups).
func (s *Service) Run(ctx context.Context, kind string, req Request) ([]string, error) {
	switch kind {
	case KindFunctions:
		return s.Functions(ctx, req)
	case KindFollowups:
		return s.Followups(ctx, req)
	default:
		return nil, fmt.Errorf("unknown suggestion kind %q", kind)
	}
}

func (s *Service) run(ctx context.Context, p *Pipeline, req Request) ([]string, error) {
	if s.models == nil {
		return nil, ErrInvalidModel
	}
	m, err := s.models.Get(req.Provider, req.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	return p.Run(ctx, m, req.History)
}

func capItems(items []string, limit int) []string {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
