// Package chatcmder provides the chat command for interactive single-model
// chat through the quorum relay.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quorumchat/quorum/pkg/cliui"
	"github.com/quorumchat/quorum/pkg/config"
	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/logger"
	"github.com/quorumchat/quorum/pkg/relayclient"
	"github.com/quorumchat/quorum/pkg/session"
	"github.com/quorumchat/quorum/pkg/sessionstore"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

type chatCommander struct {
	relayTarget  string
	model        string
	modelSet     bool
	sessionID    string
	systemPrompt string
	configDir    string
	debug        bool

	cfg    *config.Config
	logger *zap.Logger
}

const chatLongDesc string = `Start an interactive chat session through the quorum relay.

Messages stream back token by token. The conversation persists as a
session; pass --session to resume one (see "quorum sessions list").

Examples:
  quorum chat
  quorum chat --model claude-3-5-sonnet-20241022
  quorum chat --session 6d1f0bcd-8a3e-4a5f-9a3c-2f6f2f1f7a10`

const chatShortDesc string = "Interactive single-model chat through the quorum relay"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			cfger, err := config.NewConfiger(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cmder.cfg, err = cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("relay-target") {
				cmder.relayTarget = cmder.cfg.Client.RelayTarget
			}
			if !cmd.Flags().Changed("system") {
				cmder.systemPrompt = cmder.cfg.Defaults.SystemPrompt
			}
			cmder.modelSet = cmd.Flags().Changed("model")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.relayTarget, "relay-target", "t", defaults.Client.RelayTarget, "Quorum relay URL")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "gpt-4o", "Model id (e.g., gpt-4o, claude-3-5-sonnet-20241022, grok-2-latest)")
	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", "", "Session id to resume")
	cmd.Flags().StringVar(&cmder.systemPrompt, "system", "", "System prompt for the conversation")

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	store, err := sessionstore.Open(c.cfg.Sessions, c.configDir)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	sess, err := c.loadOrCreateSession(store)
	if err != nil {
		return err
	}

	// A resumed session continues on its own model unless --model was
	// given explicitly.
	if sess.Model != "" && !c.modelSet {
		c.model = sess.Model
	}

	info, ok := llm.ModelByID(c.model)
	if !ok {
		return fmt.Errorf("unknown model %q", c.model)
	}
	sess.Model = c.model

	fmt.Println()
	if len(sess.Messages) > 0 {
		fmt.Printf("  %s Resuming %s %s\n",
			cliui.SuccessMark,
			cliui.NameStyle.Render(sess.Title),
			cliui.DimStyle.Render(fmt.Sprintf("(%d messages)", len(sess.Messages))),
		)
	} else {
		fmt.Printf("  %s New conversation\n", cliui.DimStyle.Render("●"))
	}

	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Model:"),
		cliui.NameStyle.Render(c.model),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	client := relayclient.New(c.relayTarget)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		sess.Messages = append(sess.Messages, llm.Message{
			Role:    llm.RoleUser,
			Content: input,
		})

		assistantContent, err := c.sendAndStream(client, info.Provider, sess.Messages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			// Remove the failed user message so we can retry
			sess.Messages = sess.Messages[:len(sess.Messages)-1]
			continue
		}

		sess.Messages = append(sess.Messages, llm.Message{
			Role:    llm.RoleAssistant,
			Content: assistantContent,
		})
		sess.RetitleFromPrompt(input)

		if err := store.Save(sess); err != nil {
			fmt.Fprintf(os.Stderr, "  %s saving session: %v\n", cliui.FailMark, err)
		}

		fmt.Println()
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

func (c *chatCommander) loadOrCreateSession(store session.Store) (*session.Session, error) {
	if c.sessionID == "" {
		return session.New(session.TypeSingle), nil
	}

	sess, err := store.Load(c.sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", c.sessionID, err)
	}
	if sess.Type != session.TypeSingle {
		return nil, fmt.Errorf("session %s is a comparison session; use 'quorum compare --session'", c.sessionID)
	}

	return sess, nil
}

// sendAndStream streams one assistant response to stdout and returns the
// full text.
func (c *chatCommander) sendAndStream(client *relayclient.Client, providerName string, messages []llm.Message) (string, error) {
	gen := c.cfg.Defaults.GenerationConfig()
	req := &llm.ChatRequest{
		Model:        c.model,
		Messages:     messages,
		SystemPrompt: c.systemPrompt,
		Temperature:  gen.Temperature,
		MaxTokens:    gen.MaxTokens,
	}

	c.logger.Debug("sending chat request",
		zap.String("relay_target", c.relayTarget),
		zap.String("model", c.model),
		zap.Int("message_count", len(messages)),
	)

	fmt.Print(assistantPrompt)

	return client.Stream(context.Background(), providerName, req, func(delta string) {
		fmt.Print(delta)
	})
}
