package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent quorum configuration stored as config.toml
// in the .quorum/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Relay    RelayConfig    `toml:"relay"`
	Client   ClientConfig   `toml:"client"`
	Sessions SessionsConfig `toml:"sessions"`
	Defaults DefaultsConfig `toml:"defaults"`
}

// RelayConfig holds relay server settings. The per-provider upstream
// overrides exist for gateways and tests; empty means the provider's
// production API URL.
type RelayConfig struct {
	Listen            string `toml:"listen,omitempty"`
	Synthesizer       string `toml:"synthesizer,omitempty"`
	OpenAIUpstream    string `toml:"openai_upstream,omitempty"`
	AnthropicUpstream string `toml:"anthropic_upstream,omitempty"`
	XAIUpstream       string `toml:"xai_upstream,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// relay (quorum chat, quorum compare). RelayTarget is a full URL.
type ClientConfig struct {
	RelayTarget string `toml:"relay_target,omitempty"`
}

// SessionsConfig holds session store settings. Driver selects the storage
// backend ("file" or "memory"); Path overrides the sessions file location
// for the file driver.
type SessionsConfig struct {
	Driver string `toml:"driver,omitempty"`
	Path   string `toml:"path,omitempty"`
}

// DefaultsConfig holds the generation parameters applied when a request
// omits them.
type DefaultsConfig struct {
	SystemPrompt string  `toml:"system_prompt,omitempty"`
	Temperature  float64 `toml:"temperature,omitempty"`
	MaxTokens    int     `toml:"max_tokens,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"relay.listen": {
		get: func(c *Config) string { return c.Relay.Listen },
		set: func(c *Config, v string) error { c.Relay.Listen = v; return nil },
	},
	"relay.synthesizer": {
		get: func(c *Config) string { return c.Relay.Synthesizer },
		set: func(c *Config, v string) error { c.Relay.Synthesizer = v; return nil },
	},
	"relay.openai_upstream": {
		get: func(c *Config) string { return c.Relay.OpenAIUpstream },
		set: func(c *Config, v string) error { c.Relay.OpenAIUpstream = v; return nil },
	},
	"relay.anthropic_upstream": {
		get: func(c *Config) string { return c.Relay.AnthropicUpstream },
		set: func(c *Config, v string) error { c.Relay.AnthropicUpstream = v; return nil },
	},
	"relay.xai_upstream": {
		get: func(c *Config) string { return c.Relay.XAIUpstream },
		set: func(c *Config, v string) error { c.Relay.XAIUpstream = v; return nil },
	},
	"client.relay_target": {
		get: func(c *Config) string { return c.Client.RelayTarget },
		set: func(c *Config, v string) error { c.Client.RelayTarget = v; return nil },
	},
	"sessions.driver": {
		get: func(c *Config) string { return c.Sessions.Driver },
		set: func(c *Config, v string) error {
			if v != "file" && v != "memory" {
				return fmt.Errorf("invalid value for sessions.driver: %q (available: file, memory)", v)
			}
			c.Sessions.Driver = v
			return nil
		},
	},
	"sessions.path": {
		get: func(c *Config) string { return c.Sessions.Path },
		set: func(c *Config, v string) error { c.Sessions.Path = v; return nil },
	},
	"defaults.system_prompt": {
		get: func(c *Config) string { return c.Defaults.SystemPrompt },
		set: func(c *Config, v string) error { c.Defaults.SystemPrompt = v; return nil },
	},
	"defaults.temperature": {
		get: func(c *Config) string {
			return strconv.FormatFloat(c.Defaults.Temperature, 'g', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for defaults.temperature: %w", err)
			}
			c.Defaults.Temperature = f
			return nil
		},
	},
	"defaults.max_tokens": {
		get: func(c *Config) string {
			if c.Defaults.MaxTokens == 0 {
				return ""
			}
			return strconv.Itoa(c.Defaults.MaxTokens)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for defaults.max_tokens: %w", err)
			}
			c.Defaults.MaxTokens = n
			return nil
		},
	},
}
