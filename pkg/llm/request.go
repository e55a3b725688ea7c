package llm

import "fmt"

// Generation parameter bounds enforced at the relay boundary. Requests that
// omit temperature or maxTokens get the defaults; out-of-bounds values are
// rejected before any upstream call.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
	MinMaxTokens   = 1
	MaxMaxTokens   = 4000

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
)

// ChatRequest is the normalized request body accepted by every relay
// endpoint, regardless of which upstream provider it targets.
type ChatRequest struct {
	Messages     []Message `json:"messages"`
	Model        string    `json:"model"`
	SystemPrompt string    `json:"systemPrompt,omitempty"`
	Temperature  *float64  `json:"temperature,omitempty"`
	MaxTokens    *int      `json:"maxTokens,omitempty"`
}

// GenerationConfig holds the generation parameters shared by every lane of
// a fan-out request.
type GenerationConfig struct {
	SystemPrompt string
	Temperature  *float64
	MaxTokens    *int
}

// Validate checks the request against the relay's input contract. The
// returned error text is suitable as a plain-text 4xx response body.
func (r *ChatRequest) Validate() error {
	if r.Model == "" {
		return fmt.Errorf("missing model parameter")
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("messages must be a non-empty array")
	}
	if r.Messages[0].Role != RoleUser {
		return fmt.Errorf("first message must be from user")
	}
	for i, m := range r.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("message %d has invalid role %q", i, m.Role)
		}
	}
	if r.Temperature != nil && (*r.Temperature < MinTemperature || *r.Temperature > MaxTemperature) {
		return fmt.Errorf("temperature must be between %g and %g", MinTemperature, MaxTemperature)
	}
	if r.MaxTokens != nil && (*r.MaxTokens < MinMaxTokens || *r.MaxTokens > MaxMaxTokens) {
		return fmt.Errorf("maxTokens must be between %d and %d", MinMaxTokens, MaxMaxTokens)
	}
	return nil
}

// TemperatureOrDefault returns the requested temperature, or the default
// when the request omitted it.
func (r *ChatRequest) TemperatureOrDefault() float64 {
	if r.Temperature != nil {
		return *r.Temperature
	}
	return DefaultTemperature
}

// MaxTokensOrDefault returns the requested max token limit, or the default
// when the request omitted it.
func (r *ChatRequest) MaxTokensOrDefault() int {
	if r.MaxTokens != nil {
		return *r.MaxTokens
	}
	return DefaultMaxTokens
}
