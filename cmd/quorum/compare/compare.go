// Package comparecmder provides the compare command for fanning one prompt
// out to several models through the quorum relay.
package comparecmder

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
	"github.com/quorumchat/quorum/pkg/compare"
	"github.com/quorumchat/quorum/pkg/config"
	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/logger"
	"github.com/quorumchat/quorum/pkg/relayclient"
	"github.com/quorumchat/quorum/pkg/session"
	"github.com/quorumchat/quorum/pkg/sessionstore"
	"github.com/quorumchat/quorum/pkg/synthesis"
)

var userPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")

type compareCommander struct {
	relayTarget  string
	models       []string
	sessionID    string
	systemPrompt string
	synthesize   bool
	configDir    string
	debug        bool

	cfg    *config.Config
	logger *zap.Logger
}

const compareLongDesc string = `Fan one prompt out to several models at once and compare their answers.

Each model streams on its own lane; a lane failure never blocks the
others. Settled responses print side by side and the turn persists as a
comparison session. With --synthesize, a synthesizer model contrasts the
responses after each turn.

Examples:
  quorum compare
  quorum compare --models gpt-4o,grok-2-latest
  quorum compare --synthesize`

const compareShortDesc string = "Compare responses from multiple models"

func NewCompareCmd() *cobra.Command {
	cmder := &compareCommander{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: compareShortDesc,
		Long:  compareLongDesc,
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
	defaultModels := []string{"gpt-4o", "claude-3-5-sonnet-20241022", "grok-2-latest"}

	cmd.Flags().StringVarP(&cmder.relayTarget, "relay-target", "t", defaults.Client.RelayTarget, "Quorum relay URL")
	cmd.Flags().StringSliceVarP(&cmder.models, "models", "m", defaultModels, "Model ids to compare (max 4)")
	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", "", "Comparison session id to resume")
	cmd.Flags().StringVar(&cmder.systemPrompt, "system", "", "System prompt shared by every lane")
	cmd.Flags().BoolVar(&cmder.synthesize, "synthesize", false, "Synthesize the responses after each turn")

	return cmd
}

func (c *compareCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	if len(c.models) == 0 {
		return fmt.Errorf("at least one model is required")
	}
	if len(c.models) > compare.MaxLanes {
		return fmt.Errorf("too many models: %d (max %d)", len(c.models), compare.MaxLanes)
	}
	for _, model := range c.models {
		if _, ok := llm.ModelByID(model); !ok {
			return fmt.Errorf("unknown model %q", model)
		}
	}

	store, err := sessionstore.Open(c.cfg.Sessions, c.configDir)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	sess, err := c.loadOrCreateSession(store)
	if err != nil {
		return err
	}

	client := relayclient.New(c.relayTarget)
	orchestrator := compare.NewOrchestrator(client, store, c.logger)

	synth := synthesis.New(client)
	if c.cfg.Relay.Synthesizer != "" {
		synth.Model = c.cfg.Relay.Synthesizer
	}

	fmt.Println()
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Models:"),
		cliui.NameStyle.Render(strings.Join(sess.Models, ", ")),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your prompt and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		if err := c.runTurn(orchestrator, synth, sess, input); err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

func (c *compareCommander) loadOrCreateSession(store session.Store) (*session.Session, error) {
	if c.sessionID == "" {
		sess := session.New(session.TypeCompare)
		sess.Models = c.models
		return sess, nil
	}

	sess, err := store.Load(c.sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", c.sessionID, err)
	}
	if sess.Type != session.TypeCompare {
		return nil, fmt.Errorf("session %s is a single chat session; use 'quorum chat --session'", c.sessionID)
	}

	return sess, nil
}

// runTurn executes one fan-out turn and prints the settled lanes.
func (c *compareCommander) runTurn(orchestrator *compare.Orchestrator, synth *synthesis.Synthesizer, sess *session.Session, prompt string) error {
	cfg := c.cfg.Defaults.GenerationConfig()
	cfg.SystemPrompt = c.systemPrompt

	var lanes []*compare.Lane
	err := cliui.Step(os.Stdout, fmt.Sprintf("querying %d models", len(sess.Models)), func() error {
		var runErr error
		lanes, runErr = orchestrator.Run(context.Background(), sess, prompt, cfg)
		return runErr
	})
	if err != nil {
		return err
	}

	fmt.Println()
	for _, lane := range lanes {
		fmt.Printf("%s\n", cliui.ModelHeading(lane.Model()))
		if lane.State() == compare.StateFailed {
			c.logger.Debug("lane failed", zap.String("model", lane.Model()), zap.Error(lane.Err()))
		}
		rendered, renderErr := cliui.RenderMarkdown(lane.Text())
		if renderErr != nil {
			rendered = lane.Text() + "\n"
		}
		fmt.Print(rendered)
	}

	if c.synthesize {
		return c.runSynthesis(synth, lanes)
	}

	return nil
}

// runSynthesis streams a cross-model analysis of the settled lanes.
func (c *compareCommander) runSynthesis(synth *synthesis.Synthesizer, lanes []*compare.Lane) error {
	responses := make(map[string]string, len(lanes))
	for _, lane := range lanes {
		responses[lane.Model()] = lane.Text()
	}

	var analysis string
	err := cliui.Step(os.Stdout, "synthesizing responses", func() error {
		var synthErr error
		analysis, synthErr = synth.Run(context.Background(), responses, nil)
		return synthErr
	})
	if err != nil {
		c.logger.Debug("synthesis failed", zap.Error(err))
		fmt.Printf("\n%s\n", synthesis.ErrorMessage)
		return nil
	}

	fmt.Printf("\n%s\n", cliui.ModelHeading("synthesis"))
	rendered, renderErr := cliui.RenderMarkdown(analysis)
	if renderErr != nil {
		rendered = analysis + "\n"
	}
	fmt.Print(rendered)

	return nil
}
