// Package synthesis builds a cross-model analysis from a comparison turn's
// responses by asking a synthesizer model to contrast them.
package synthesis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/quorumchat/quorum/pkg/compare"
	"github.com/quorumchat/quorum/pkg/llm"
)

// DefaultModel is the synthesizer model used when none is configured. It is
// served through the openai relay endpoint.
const (
	DefaultModel    = "o3-mini"
	DefaultProvider = "openai"
)

// ErrorMessage is shown in place of a synthesis that failed.
const ErrorMessage = "Sorry, there was an error synthesizing the responses."

// promptTemplate frames the per-model responses for the synthesizer.
const promptTemplate = `Analyze the following AI model responses and provide a structured analysis with these sections:

1. Comprehensive Synthesis
Combine the unique insights from each model into a coherent analysis. Focus on the main themes and how different perspectives complement each other.

2. Notable Differences in Their Approaches
Highlight the distinct characteristics of each model's response, including differences in:
- Style and tone
- Depth of analysis
- Unique perspectives or insights
- Special features or approaches

3. Summary of Key Points
List the main points that multiple models agreed upon, emphasizing the consensus views and shared insights.

Format each section with clear headers and use paragraphs for readability.

Responses:
%s`

// BuildPrompt renders the synthesis prompt from per-model response texts.
// Models are ordered by id so the prompt is deterministic.
func BuildPrompt(responses map[string]string) string {
	models := make([]string, 0, len(responses))
	for model := range responses {
		models = append(models, model)
	}
	sort.Strings(models)

	entries := make([]string, 0, len(models))
	for _, model := range models {
		entries = append(entries, fmt.Sprintf("%s: %s", model, responses[model]))
	}

	return fmt.Sprintf(promptTemplate, strings.Join(entries, "\n\n"))
}

// Synthesizer streams cross-model analyses through a relay client.
type Synthesizer struct {
	streamer compare.Streamer

	// Model is the synthesizer model id; empty means DefaultModel.
	Model string
}

// New returns a Synthesizer backed by the given streamer.
func New(streamer compare.Streamer) *Synthesizer {
	return &Synthesizer{streamer: streamer}
}

// Run streams a synthesis of the per-model responses, invoking onDelta per
// text delta, and returns the full analysis text.
func (s *Synthesizer) Run(ctx context.Context, responses map[string]string, onDelta func(delta string)) (string, error) {
	if len(responses) == 0 {
		return "", fmt.Errorf("no responses to synthesize")
	}

	model := s.Model
	if model == "" {
		model = DefaultModel
	}

	req := &llm.ChatRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(responses)},
		},
	}

	text, err := s.streamer.Stream(ctx, DefaultProvider, req, onDelta)
	if err != nil {
		return "", fmt.Errorf("synthesis failed: %w", err)
	}

	return text, nil
}
