package llm

import "strings"

// ModelInfo describes a selectable model and the provider family that
// serves it.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// KnownModels is the built-in model catalog offered by the CLI. Relay
// endpoints accept any model id; this list only drives selection defaults.
var KnownModels = []ModelInfo{
	{ID: "gpt-4o", Name: "GPT-4o", Provider: "openai"},
	{ID: "o3-mini", Name: "GPT-o3-mini", Provider: "openai"},
	{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Provider: "anthropic"},
	{ID: "grok-2-latest", Name: "Grok 2", Provider: "xai"},
}

// ModelByID looks up a model in the built-in catalog.
func ModelByID(id string) (ModelInfo, bool) {
	for _, m := range KnownModels {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// IsReasoningModel reports whether the model id names an OpenAI reasoning
// model. Those endpoints reject sampling parameters, so request builders
// omit temperature and token limits for them.
func IsReasoningModel(modelID string) bool {
	return strings.HasPrefix(modelID, "o1") || strings.HasPrefix(modelID, "o3")
}
