// Package anthropic adapts the relay's normalized chat request to
// Anthropic's streaming Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/sse"
)

const (
	defaultUpstream = "https://api.anthropic.com/v1/messages"

	// apiVersion is the pinned Messages API version header value.
	apiVersion = "2023-06-01"
)

// Provider implements the upstream adapter for Anthropic.
type Provider struct {
	upstream string
}

// New returns an Anthropic adapter. upstreamOverride replaces the production
// API URL when non-empty.
func New(upstreamOverride string) *Provider {
	upstream := defaultUpstream
	if upstreamOverride != "" {
		upstream = upstreamOverride
	}
	return &Provider{upstream: upstream}
}

func (p *Provider) Name() string {
	return "anthropic"
}

func (p *Provider) EnvVar() string {
	return "ANTHROPIC_API_KEY"
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// wireRequest is the Messages API request body. Unlike the chat-completions
// dialects the system prompt is a top-level field and max_tokens is
// mandatory.
type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	System      string        `json:"system,omitempty"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

func (p *Provider) BuildRequest(ctx context.Context, req *llm.ChatRequest, apiKey string) (*http.Request, error) {
	messages := make([]wireMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, wireMessage{Role: m.Role, Content: m.Content})
	}

	body := wireRequest{
		Model:       req.Model,
		Messages:    messages,
		System:      req.SystemPrompt,
		Stream:      true,
		Temperature: req.TemperatureOrDefault(),
		MaxTokens:   req.MaxTokensOrDefault(),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.upstream, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building anthropic request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	return httpReq, nil
}

// streamEvent is one Messages API streaming envelope. Text arrives on
// "content_block_delta" events whose delta type is "text_delta"; every other
// event type carries metadata the relay does not forward.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

func (p *Provider) ExtractDelta(ev sse.Event) (string, error) {
	if ev.Type == "message_stop" {
		return "", llm.ErrStreamDone
	}
	if ev.Type == "ping" {
		return "", nil
	}

	var event streamEvent
	if err := json.Unmarshal([]byte(ev.Data), &event); err != nil {
		return "", fmt.Errorf("decoding anthropic stream event: %w", err)
	}

	if event.Type == "message_stop" {
		return "", llm.ErrStreamDone
	}
	if event.Type != "content_block_delta" || event.Delta.Type != "text_delta" {
		return "", nil
	}

	return event.Delta.Text, nil
}
