package servecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/papercomputeco/wayfarer/pkg/config"
	"github.com/papercomputeco/wayfarer/pkg/dotdir"
	"github.com/papercomputeco/wayfarer/pkg/eventstream"
	"github.com/papercomputeco/wayfarer/pkg/eventstream/kafka"
	"github.com/papercomputeco/wayfarer/pkg/eventstream/nop"
	"github.com/papercomputeco/wayfarer/pkg/llm/provider"
	wayfarerlogger "github.com/papercomputeco/wayfarer/pkg/logger"
	"github.com/papercomputeco/wayfarer/pkg/storage"
	"github.com/papercomputeco/wayfarer/pkg/storage/inmemory"
	"github.com/papercomputeco/wayfarer/pkg/storage/postgres"
	"github.com/papercomputeco/wayfarer/pkg/storage/sqlite"
	"github.com/papercomputeco/wayfarer/pkg/suggest"
)

// NewLogger builds the serve logger: pretty output on stdout and, when
// logFile is set, JSON records appended to that file. The returned closer
// releases the file.
func NewLogger(stdout io.Writer, debug bool, logFile string) (*slog.Logger, func() error, error) {
	pretty := wayfarerlogger.New(
		wayfarerlogger.WithWriter(stdout),
		wayfarerlogger.WithDebug(debug),
		wayfarerlogger.WithPretty(true),
	)
	if logFile == "" {
		return pretty, func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	structured := wayfarerlogger.New(
		wayfarerlogger.WithWriter(f),
		wayfarerlogger.WithDebug(debug),
		wayfarerlogger.WithJSON(true),
	)
	return wayfarerlogger.Multi(pretty, structured), f.Close, nil
}

// NewService builds the suggestion service from cfg. Prompt overrides are
// read from suggest.templates_dir, or <config dir>/prompts when unset.
func NewService(cfg *config.Config, configDir string, logger *slog.Logger) (*suggest.Service, *suggest.TemplateSet, error) {
	timeout, err := cfg.LLM.TimeoutDuration()
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(provider.RegistryConfig{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
		Timeout:  timeout,
		Logger:   logger,
	})

	dir := cfg.Suggest.TemplatesDir
	if dir == "" {
		dir, err = dotdir.NewManager().PromptsDir(configDir)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving prompts dir: %w", err)
		}
	}

	templates, err := suggest.NewTemplateSet(dir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("loading prompt templates: %w", err)
	}

	svc := suggest.NewService(suggest.ServiceConfig{
		Models:        registry,
		FunctionLimit: int(cfg.Suggest.FunctionLimit),
		FollowupLimit: int(cfg.Suggest.FollowupLimit),
		Strict:        cfg.Suggest.Strict,
		Templates:     templates,
		Logger:        logger,
	})

	return svc, templates, nil
}

// NewStorageDriver opens the configured chat store. PostgreSQL takes
// precedence over SQLite; neither yields an in-memory store.
func NewStorageDriver(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Driver, error) {
	switch {
	case cfg.Storage.PostgresDSN != "":
		driver, err := postgres.NewDriver(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL storer: %w", err)
		}
		logger.Info("using PostgreSQL storage")
		return driver, nil

	case cfg.Storage.SQLitePath != "":
		driver, err := sqlite.NewSQLiteDriver(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		logger.Info("using SQLite storage", "path", cfg.Storage.SQLitePath)
		return driver, nil

	default:
		logger.Info("using in-memory storage")
		return inmemory.NewDriver(), nil
	}
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func NewPublisher(cfg *config.Config, logger *slog.Logger) (eventstream.Publisher, error) {
	brokers := kafka.ParseBrokers(cfg.Events.KafkaBrokers)
	if len(brokers) == 0 {
		logger.Debug("event publishing disabled")
		return nop.NewPublisher(), nil
	}

	pub, err := kafka.NewPublisher(kafka.Config{
		Brokers: brokers,
		Topic:   cfg.Events.KafkaTopic,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}
	logger.Info("publishing suggestion events", "brokers", brokers, "topic", cfg.Events.KafkaTopic)
	return pub, nil
}
