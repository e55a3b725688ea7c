// Package xai adapts the relay's normalized chat request to xAI's streaming
// chat completions API. The wire format matches OpenAI's dialect; only the
// endpoint, auth key, and default persona differ.
package xai

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
	defaultUpstream = "https://api.x.ai/v1/chat/completions"

	// DefaultSystemPrompt is injected when the request carries no system
	// prompt of its own.
	DefaultSystemPrompt = "You are Grok, a chatbot inspired by The Hitchhiker's Guide to the Galaxy."

	doneSentinel = "[DONE]"
)

// Provider implements the upstream adapter for xAI.
type Provider struct {
	upstream string
}

// New returns an xAI adapter. upstreamOverride replaces the production API
// URL when non-empty.
func New(upstreamOverride string) *Provider {
	upstream := defaultUpstream
	if upstreamOverride != "" {
		upstream = upstreamOverride
	}
	return &Provider{upstream: upstream}
}

func (p *Provider) Name() string {
	return "xai"
}

func (p *Provider) EnvVar() string {
	return "XAI_API_KEY"
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

func (p *Provider) BuildRequest(ctx context.Context, req *llm.ChatRequest, apiKey string) (*http.Request, error) {
	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	messages := make([]wireMessage, 0, len(req.Messages)+1)
	messages = append(messages, wireMessage{Role: "system", Content: systemPrompt})
	for _, m := range req.Messages {
		messages = append(messages, wireMessage{Role: m.Role, Content: m.Content})
	}

	body := wireRequest{
		Model:       req.Model,
		Messages:    messages,
		Stream:      true,
		Temperature: req.TemperatureOrDefault(),
		MaxTokens:   req.MaxTokensOrDefault(),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding xai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.upstream, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building xai request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	return httpReq, nil
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (p *Provider) ExtractDelta(ev sse.Event) (string, error) {
	if ev.Data == doneSentinel {
		return "", llm.ErrStreamDone
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
		return "", fmt.Errorf("decoding xai stream chunk: %w", err)
	}

	if len(chunk.Choices) == 0 {
		return "", nil
	}

	return chunk.Choices[0].Delta.Content, nil
}
