// Package wayfarercmder
package wayfarercmder

import (
	"github.com/spf13/cobra"

	versioncmder "github.com/papercomputeco/wayfarer/cmd/version"
	configcmder "github.com/papercomputeco/wayfarer/cmd/wayfarer/config"
	servecmder "github.com/papercomputeco/wayfarer/cmd/wayfarer/serve"
	suggestcmder "github.com/papercomputeco/wayfarer/cmd/wayfarer/suggest"
)

const wayfarerLongDesc string = `Wayfarer turns a travel-assistant conversation into suggestions:
functions the assistant can offer next and follow-up questions the
user may want to ask.

Run services using:
  wayfarer serve                       Run the API server
  wayfarer suggest functions           Suggest functions for a saved conversation
  wayfarer suggest followups           Suggest follow-up questions
  wayfarer config list                 Show persistent configuration`

const wayfarerShortDesc string = "Wayfarer - conversation suggestions"

func NewWayfarerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "wayfarer",
		Short:        wayfarerShortDesc,
		Long:         wayfarerLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .wayfarer/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(suggestcmder.NewSuggestCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
