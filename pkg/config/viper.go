package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/quorumchat/quorum/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the QUORUM_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command layer)
//  2. Environment variables (QUORUM_RELAY_LISTEN, QUORUM_CLIENT_RELAY_TARGET, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: QUORUM_RELAY_LISTEN, QUORUM_DEFAULTS_MAX_TOKENS, etc.
	v.SetEnvPrefix("QUORUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Relay
	v.SetDefault("relay.listen", d.Relay.Listen)
	v.SetDefault("relay.synthesizer", d.Relay.Synthesizer)
	v.SetDefault("relay.openai_upstream", d.Relay.OpenAIUpstream)
	v.SetDefault("relay.anthropic_upstream", d.Relay.AnthropicUpstream)
	v.SetDefault("relay.xai_upstream", d.Relay.XAIUpstream)

	// Client
	v.SetDefault("client.relay_target", d.Client.RelayTarget)

	// Sessions
	v.SetDefault("sessions.driver", d.Sessions.Driver)
	v.SetDefault("sessions.path", d.Sessions.Path)

	// Defaults
	v.SetDefault("defaults.system_prompt", d.Defaults.SystemPrompt)
	v.SetDefault("defaults.temperature", d.Defaults.Temperature)
	v.SetDefault("defaults.max_tokens", d.Defaults.MaxTokens)
}
