// Package openai adapts the relay's normalized chat request to OpenAI's
// streaming Chat Completions API.
package openai

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
	defaultUpstream = "https://api.openai.com/v1/chat/completions"

	// DefaultSystemPrompt is injected when the request carries no system
	// prompt of its own.
	DefaultSystemPrompt = "You are a helpful assistant."

	// doneSentinel terminates OpenAI SSE streams.
	doneSentinel = "[DONE]"
)

// Provider implements the upstream adapter for OpenAI.
type Provider struct {
	upstream string
}

// New returns an OpenAI adapter. upstreamOverride replaces the production
// API URL when non-empty.
func New(upstreamOverride string) *Provider {
	upstream := defaultUpstream
	if upstreamOverride != "" {
		upstream = upstreamOverride
	}
	return &Provider{upstream: upstream}
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) EnvVar() string {
	return "OPENAI_API_KEY"
}

// wireMessage is a chat message in OpenAI's request format.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// wireRequest is the Chat Completions request body. Temperature and
// MaxTokens are pointers so reasoning models can omit them entirely.
type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
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
		Model:    req.Model,
		Messages: messages,
		Stream:   true,
	}

	// Reasoning models reject sampling parameters; leave them out.
	if !llm.IsReasoningModel(req.Model) {
		temperature := req.TemperatureOrDefault()
		maxTokens := req.MaxTokensOrDefault()
		body.Temperature = &temperature
		body.MaxTokens = &maxTokens
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding openai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.upstream, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building openai request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	return httpReq, nil
}

// streamChunk is one Chat Completions streaming envelope. Only the delta
// content is relevant to the relay.
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
		return "", fmt.Errorf("decoding openai stream chunk: %w", err)
	}

	if len(chunk.Choices) == 0 {
		return "", nil
	}

	return chunk.Choices[0].Delta.Content, nil
}
