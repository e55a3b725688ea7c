package provider

import (
	"fmt"

	"github.com/quorumchat/quorum/pkg/llm/provider/anthropic"
	"github.com/quorumchat/quorum/pkg/llm/provider/openai"
	"github.com/quorumchat/quorum/pkg/llm/provider/xai"
)

// Names lists every supported provider.
func Names() []string {
	return []string{OpenAI, Anthropic, XAI}
}

// Supported returns whether name is a known provider.
func Supported(name string) bool {
	switch name {
	case OpenAI, Anthropic, XAI:
		return true
	}
	return false
}

// New returns the adapter for the named provider. upstreamOverride replaces
// the provider's default API URL when non-empty (used by tests and by relay
// configuration pointing at a gateway).
func New(name string, upstreamOverride string) (Provider, error) {
	switch name {
	case OpenAI:
		return openai.New(upstreamOverride), nil
	case Anthropic:
		return anthropic.New(upstreamOverride), nil
	case XAI:
		return xai.New(upstreamOverride), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", name)
	}
}
