// Package quorumcmder
package quorumcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/quorumchat/quorum/cmd/quorum/auth"
	chatcmder "github.com/quorumchat/quorum/cmd/quorum/chat"
	comparecmder "github.com/quorumchat/quorum/cmd/quorum/compare"
	configcmder "github.com/quorumchat/quorum/cmd/quorum/config"
	servecmder "github.com/quorumchat/quorum/cmd/quorum/serve"
	sessionscmder "github.com/quorumchat/quorum/cmd/quorum/sessions"
	versioncmder "github.com/quorumchat/quorum/cmd/version"
)

const quorumLongDesc string = `Quorum compares answers from multiple LLMs side by side.

Run the relay and talk to models using:
  quorum serve      Run the streaming relay server
  quorum chat       Interactive chat with a single model
  quorum compare    Fan one prompt out to several models at once`

const quorumShortDesc string = "Quorum - Multi-LLM comparison chat"

func NewQuorumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quorum",
		Short: quorumShortDesc,
		Long:  quorumLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .quorum/ directory location")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(comparecmder.NewCompareCmd())
	cmd.AddCommand(sessionscmder.NewSessionsCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
