package config

import "github.com/quorumchat/quorum/pkg/llm"

const (
	defaultRelayListen = ":8080"
	defaultSynthesizer = "o3-mini"

	defaultClientRelayTarget = "http://localhost:8080"

	defaultSessionsDriver = "file"

	defaultSystemPrompt = "You are a helpful assistant."
)

// GenerationConfig converts the configured defaults into the generation
// parameters applied to outgoing chat requests. Zero values stay unset so
// the relay applies its own defaults.
func (d DefaultsConfig) GenerationConfig() llm.GenerationConfig {
	gen := llm.GenerationConfig{SystemPrompt: d.SystemPrompt}

	if d.Temperature != 0 {
		t := d.Temperature
		gen.Temperature = &t
	}
	if d.MaxTokens != 0 {
		n := d.MaxTokens
		gen.MaxTokens = &n
	}

	return gen
}

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Relay: RelayConfig{
			Listen:      defaultRelayListen,
			Synthesizer: defaultSynthesizer,
		},
		Client: ClientConfig{
			RelayTarget: defaultClientRelayTarget,
		},
		Sessions: SessionsConfig{
			Driver: defaultSessionsDriver,
		},
		Defaults: DefaultsConfig{
			SystemPrompt: defaultSystemPrompt,
			Temperature:  llm.DefaultTemperature,
			MaxTokens:    llm.DefaultMaxTokens,
		},
	}
}
