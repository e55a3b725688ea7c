// Package configcmder provides the config command for managing persistent
// quorum configuration stored in the .quorum/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent quorum configuration.

Configuration is stored as config.toml in the .quorum/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  relay.listen, relay.synthesizer,
  relay.openai_upstream, relay.anthropic_upstream, relay.xai_upstream,
  client.relay_target,
  sessions.driver, sessions.path,
  defaults.system_prompt, defaults.temperature, defaults.max_tokens

Use subcommands to get, set, or list configuration values:
  quorum config set <key> <value>    Set a configuration value
  quorum config get <key>            Get a configuration value
  quorum config list                 List all configuration values

Examples:
  quorum config set relay.listen :9090
  quorum config set defaults.temperature 0.4
  quorum config get client.relay_target
  quorum config list`

const configShortDesc string = "Manage persistent quorum configuration"

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
