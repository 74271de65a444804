// Package configcmder provides the config command for managing persistent
// reelqa configuration stored in the .reelqa/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent reelqa configuration.

Configuration is stored as config.toml in the .reelqa/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  chunking.size, chunking.overlap, retrieval.k,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  generation.provider, generation.target, generation.model, generation.temperature,
  vector_store.provider, vector_store.target, vector_store.collection,
  transcript.provider, transcript.target, transcript.language,
  events.provider, events.brokers, events.topic,
  api.listen, client.api_target

Use subcommands to get, set, or list configuration values:
  reelqa config set <key> <value>    Set a configuration value
  reelqa config get <key>            Get a configuration value
  reelqa config list                 List all configuration values

Examples:
  reelqa config set generation.model llama3.2
  reelqa config set embedding.model nomic-embed-text
  reelqa config get retrieval.k
  reelqa config list`

const configShortDesc string = "Manage persistent reelqa configuration"

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
