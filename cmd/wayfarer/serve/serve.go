// Package servecmder provides the serve command that runs the wayfarer API
// server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/wayfarer/api"
	"github.com/papercomputeco/wayfarer/pkg/config"
	"github.com/papercomputeco/wayfarer/pkg/worker"
)

type ServeCommander struct {
	listen        string
	provider      string
	model         string
	baseURL       string
	sqlitePath    string
	postgresDSN   string
	kafkaBrokers  string
	kafkaTopic    string
	templatesDir  string
	strict        bool
	functionLimit uint
	followupLimit uint
	logFile       string

	debug     bool
	configDir string
	cfg       *config.Config
	logger    *slog.Logger
}

const serveLongDesc string = `Run the wayfarer API server.

The server exposes the suggestion pipelines over HTTP:
  POST /api/functions          Suggest functions for a conversation
  POST /api/suggestions        Suggest follow-up questions
  GET  /api/functions/catalog  List the functions that can be suggested
  /api/chats                   Store chats and their messages
  /mcp                         MCP tools suggest_functions and suggest_followups

Flags override WAYFARER_* environment variables, which override config.toml.`

const serveShortDesc string = "Run the wayfarer API server"

var serveFlags = []string{
	config.FlagListen,
	config.FlagProvider,
	config.FlagModel,
	config.FlagBaseURL,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
	config.FlagTemplatesDir,
	config.FlagStrict,
	config.FlagFunctionLimit,
	config.FlagFollowupLimit,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.cfg, err = LoadConfig(cmd, cmder.configDir, serveFlags)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaTopic, &cmder.kafkaTopic)
	config.AddStringFlag(cmd, config.Flags, config.FlagTemplatesDir, &cmder.templatesDir)
	config.AddBoolFlag(cmd, config.Flags, config.FlagStrict, &cmder.strict)
	config.AddUintFlag(cmd, config.Flags, config.FlagFunctionLimit, &cmder.functionLimit)
	config.AddUintFlag(cmd, config.Flags, config.FlagFollowupLimit, &cmder.followupLimit)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

// LoadConfig resolves flags, environment and config.toml into a Config.
// flagKeys are the registry keys of the flags cmd registered.
func LoadConfig(cmd *cobra.Command, configDir string, flagKeys []string) (*config.Config, error) {
	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, flagKeys)
	return config.FromViper(v), nil
}

func (c *ServeCommander) run(ctx context.Context, stdout io.Writer) error {
	var (
		closeLog func() error
		err      error
	)
	c.logger, closeLog, err = NewLogger(stdout, c.debug, c.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := NewStorageDriver(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	publisher, err := NewPublisher(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	svc, templates, err := NewService(c.cfg, c.configDir, c.logger)
	if err != nil {
		return err
	}

	go func() {
		if err := templates.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("prompt template watcher stopped", "error", err)
		}
	}()

	pool, err := worker.NewPool(&worker.Config{
		Driver:    driver,
		Publisher: publisher,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	// Runs after the server stops so queued jobs can drain.
	defer pool.Close()

	timeout, err := c.cfg.LLM.TimeoutDuration()
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Config{
		ListenAddr:     c.cfg.API.Listen,
		RequestTimeout: timeout,
	}, svc, driver, pool, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	c.logger.Info("wayfarer configured",
		"provider", c.cfg.LLM.Provider,
		"model", c.cfg.LLM.Model,
		"strict", c.cfg.Suggest.Strict,
	)

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		c.logger.Info("received signal, shutting down")
		return server.Shutdown()
	}
}
