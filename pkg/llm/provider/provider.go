// Package provider defines the upstream adapter interface used by the relay.
// Each provider implementation knows how to build a streaming request in its
// API dialect and how to extract text deltas from its SSE events.
package provider

import (
	"context"
	"net/http"

	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/sse"
)

// Canonical provider names. These double as the model catalog's provider
// field and the relay endpoint routing keys.
const (
	OpenAI    = "openai"
	Anthropic = "anthropic"
	XAI       = "xai"
)

// Provider adapts the relay's normalized chat request to one upstream LLM
// API dialect.
type Provider interface {
	// Name returns the canonical provider name ("openai", "anthropic", "xai").
	Name() string

	// EnvVar returns the environment variable that conventionally carries
	// this provider's API key (e.g. "OPENAI_API_KEY").
	EnvVar() string

	// BuildRequest converts a normalized chat request into a streaming HTTP
	// request for the provider's upstream API, authenticated with apiKey.
	BuildRequest(ctx context.Context, req *llm.ChatRequest, apiKey string) (*http.Request, error)

	// ExtractDelta pulls the text delta out of one upstream SSE event.
	// It returns ("", nil) for events that carry no text (role preludes,
	// pings, stop metadata), ("", llm.ErrStreamDone) when the event marks
	// the clean end of the stream, and a non-nil error for malformed
	// payloads.
	ExtractDelta(ev sse.Event) (string, error)
}
