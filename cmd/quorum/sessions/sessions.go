// Package sessionscmder provides the sessions command for listing and
// deleting stored chat sessions.
package sessionscmder

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quorumchat/quorum/pkg/cliui"
	"github.com/quorumchat/quorum/pkg/config"
	"github.com/quorumchat/quorum/pkg/session"
	"github.com/quorumchat/quorum/pkg/sessionstore"
	"github.com/quorumchat/quorum/pkg/utils"
)

const sessionsLongDesc string = `Manage stored chat and comparison sessions.

Sessions persist in sessions.json in the .quorum/ directory and are
listed newest-first.

Examples:
  quorum sessions list
  quorum sessions delete 6d1f0bcd-8a3e-4a5f-9a3c-2f6f2f1f7a10`

const sessionsShortDesc string = "Manage stored sessions"

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: sessionsShortDesc,
		Long:  sessionsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}

func openStore(cmd *cobra.Command) (session.Store, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg, err := cfger.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := sessionstore.Open(cfg.Sessions, configDir)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	return store, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}

			summaries, err := store.ListSummaries()
			if err != nil {
				return err
			}

			if len(summaries) == 0 {
				fmt.Printf("\n  %s No stored sessions.\n\n", cliui.DimStyle.Render("●"))
				return nil
			}

			now := time.Now()
			fmt.Printf("\n  %s\n\n", cliui.HeaderStyle.Render("Sessions"))
			for _, s := range summaries {
				fmt.Printf("  %s  %-50s %s %s\n",
					cliui.KeyStyle.Render(s.ID),
					cliui.NameStyle.Render(s.Title),
					cliui.DimStyle.Render(s.Type),
					cliui.DimStyle.Render(utils.RelativeAge(s.UpdatedAt, now)),
				)
			}
			fmt.Println()

			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}

			if err := store.Delete(args[0]); err != nil {
				return fmt.Errorf("deleting session %s: %w", args[0], err)
			}

			fmt.Printf("\n  %s Deleted session %s\n\n",
				cliui.SuccessMark,
				cliui.NameStyle.Render(args[0]),
			)

			return nil
		},
	}
}
