// Package configcmder provides the config command for managing persistent
// wayfarer configuration stored in the .wayfarer/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent wayfarer configuration.

Configuration is stored as config.toml in the .wayfarer/ directory and
provides default values for command flags. CLI flags and WAYFARER_*
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen,
  llm.provider, llm.model, llm.base_url, llm.api_key, llm.timeout,
  storage.sqlite_path, storage.postgres_dsn,
  events.kafka_brokers, events.kafka_topic,
  suggest.function_limit, suggest.followup_limit, suggest.strict,
  suggest.templates_dir

Use subcommands to get, set, or list configuration values:
  wayfarer config set <key> <value>    Set a configuration value
  wayfarer config get <key>            Get a configuration value
  wayfarer config list                 List all configuration values

Examples:
  wayfarer config set llm.provider openai
  wayfarer config set suggest.followup_limit 4
  wayfarer config get llm.model
  wayfarer config list`

const configShortDesc string = "Manage persistent wayfarer configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
