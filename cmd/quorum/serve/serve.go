// Package servecmder provides the serve command for running the relay server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quorumchat/quorum/pkg/config"
	"github.com/quorumchat/quorum/pkg/credentials"
	"github.com/quorumchat/quorum/pkg/llm/provider"
	"github.com/quorumchat/quorum/pkg/logger"
	"github.com/quorumchat/quorum/relay"
)

type ServeCommander struct {
	listen            string
	openaiUpstream    string
	anthropicUpstream string
	xaiUpstream       string
	configDir         string
	debug             bool
	logger            *zap.Logger
}

const serveLongDesc string = `Run the quorum relay server.

The relay exposes one streaming endpoint per LLM provider:
  POST /api/openai    OpenAI chat completions
  POST /api/claude    Anthropic messages
  POST /api/grok      xAI chat completions

API keys are resolved from the environment, the stored credentials.toml,
or the request's X-Api-Keys header, in that order. A .env file in the
working directory is loaded on startup if present.`

const serveShortDesc string = "Run the quorum relay server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env file is fine; env vars may be set directly.
			_ = godotenv.Load()

			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			cfger, err := config.NewConfiger(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("listen") {
				cmder.listen = cfg.Relay.Listen
			}
			if !cmd.Flags().Changed("openai-upstream") {
				cmder.openaiUpstream = cfg.Relay.OpenAIUpstream
			}
			if !cmd.Flags().Changed("anthropic-upstream") {
				cmder.anthropicUpstream = cfg.Relay.AnthropicUpstream
			}
			if !cmd.Flags().Changed("xai-upstream") {
				cmder.xaiUpstream = cfg.Relay.XAIUpstream
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", defaults.Relay.Listen, "Address for the relay to listen on")
	cmd.Flags().StringVar(&cmder.openaiUpstream, "openai-upstream", "", "Override the OpenAI API URL")
	cmd.Flags().StringVar(&cmder.anthropicUpstream, "anthropic-upstream", "", "Override the Anthropic API URL")
	cmd.Flags().StringVar(&cmder.xaiUpstream, "xai-upstream", "", "Override the xAI API URL")

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	credsManager, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	relayConfig := relay.Config{
		ListenAddr: c.listen,
		ProviderUpstreams: map[string]string{
			provider.OpenAI:    c.openaiUpstream,
			provider.Anthropic: c.anthropicUpstream,
			provider.XAI:       c.xaiUpstream,
		},
	}

	r, err := relay.New(relayConfig, credentials.NewResolver(credsManager), c.logger)
	if err != nil {
		return fmt.Errorf("creating relay: %w", err)
	}
	defer r.Close()

	c.logger.Info("starting relay",
		zap.String("listen", c.listen),
	)

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := r.Run(); err != nil {
			errChan <- fmt.Errorf("relay error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil
	}
}
