package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent wayfarer configuration stored as config.toml
// in the .wayfarer/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	API     APIConfig     `toml:"api"`
	LLM     LLMConfig     `toml:"llm"`
	Storage StorageConfig `toml:"storage"`
	Events  EventsConfig  `toml:"events"`
	Suggest SuggestConfig `toml:"suggest"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// LLMConfig selects the default model backend used when a request does not
// name one explicitly.
type LLMConfig struct {
	Provider string `toml:"provider,omitempty"`
	Model    string `toml:"model,omitempty"`
	BaseURL  string `toml:"base_url,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`

	// Timeout is a Go duration string (e.g. "30s") applied per model call.
	Timeout string `toml:"timeout,omitempty"`
}

// StorageConfig selects the chat persistence backend. Postgres wins when both
// are set; neither means in-memory.
type StorageConfig struct {
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// EventsConfig holds event stream settings. Empty brokers disables publishing.
type EventsConfig struct {
	KafkaBrokers string `toml:"kafka_brokers,omitempty"`
	KafkaTopic   string `toml:"kafka_topic,omitempty"`
}

// SuggestConfig tunes the suggestion pipelines.
type SuggestConfig struct {
	FunctionLimit uint   `toml:"function_limit,omitempty"`
	FollowupLimit uint   `toml:"followup_limit,omitempty"`
	Strict        bool   `toml:"strict,omitempty"`
	TemplatesDir  string `toml:"templates_dir,omitempty"`
}

// TimeoutDuration parses LLM.Timeout, returning 0 for an empty value.
func (c LLMConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid llm.timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func parseUint(key, v string) (uint, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return uint(n), nil
}

func formatUint(n uint) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(n), 10)
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"llm.provider": {
		get: func(c *Config) string { return c.LLM.Provider },
		set: func(c *Config, v string) error { c.LLM.Provider = v; return nil },
	},
	"llm.model": {
		get: func(c *Config) string { return c.LLM.Model },
		set: func(c *Config, v string) error { c.LLM.Model = v; return nil },
	},
	"llm.base_url": {
		get: func(c *Config) string { return c.LLM.BaseURL },
		set: func(c *Config, v string) error { c.LLM.BaseURL = v; return nil },
	},
	"llm.api_key": {
		get: func(c *Config) string { return c.LLM.APIKey },
		set: func(c *Config, v string) error { c.LLM.APIKey = v; return nil },
	},
	"llm.timeout": {
		get: func(c *Config) string { return c.LLM.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for llm.timeout: %w", err)
			}
			c.LLM.Timeout = v
			return nil
		},
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_dsn": {
		get: func(c *Config) string { return c.Storage.PostgresDSN },
		set: func(c *Config, v string) error { c.Storage.PostgresDSN = v; return nil },
	},
	"events.kafka_brokers": {
		get: func(c *Config) string { return c.Events.KafkaBrokers },
		set: func(c *Config, v string) error { c.Events.KafkaBrokers = v; return nil },
	},
	"events.kafka_topic": {
		get: func(c *Config) string { return c.Events.KafkaTopic },
		set: func(c *Config, v string) error { c.Events.KafkaTopic = v; return nil },
	},
	"suggest.function_limit": {
		get: func(c *Config) string { return formatUint(c.Suggest.FunctionLimit) },
		set: func(c *Config, v string) error {
			n, err := parseUint("suggest.function_limit", v)
			if err != nil {
				return err
			}
			c.Suggest.FunctionLimit = n
			return nil
		},
	},
	"suggest.followup_limit": {
		get: func(c *Config) string { return formatUint(c.Suggest.FollowupLimit) },
		set: func(c *Config, v string) error {
			n, err := parseUint("suggest.followup_limit", v)
			if err != nil {
				return err
			}
			c.Suggest.FollowupLimit = n
			return nil
		},
	},
	"suggest.strict": {
		get: func(c *Config) string { return strconv.FormatBool(c.Suggest.Strict) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for suggest.strict: %w", err)
			}
			c.Suggest.Strict = b
			return nil
		},
	},
	"suggest.templates_dir": {
		get: func(c *Config) string { return c.Suggest.TemplatesDir },
		set: func(c *Config, v string) error { c.Suggest.TemplatesDir = v; return nil },
	},
}

// orderedKeys is the display order for list output, matching the TOML layout.
var orderedKeys = []string{
	"api.listen",
	"llm.provider",
	"llm.model",
	"llm.base_url",
	"llm.api_key",
	"llm.timeout",
	"storage.sqlite_path",
	"storage.postgres_dsn",
	"events.kafka_brokers",
	"events.kafka_topic",
	"suggest.function_limit",
	"suggest.followup_limit",
	"suggest.strict",
	"suggest.templates_dir",
}
