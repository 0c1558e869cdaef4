package llm

import "strings"

// ModelCost holds per-million-token pricing for a model, in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model, or nil if unknown. Friendly
// profile names ("gemini-pro") and OpenRouter vendor-prefixed ids
// ("google/gemini-2.5-pro") resolve to the underlying model.
func LookupCost(model string) *ModelCost {
	id := canonicalModel(model)
	if c, ok := modelCosts[id]; ok {
		return &c
	}
	return nil
}

func canonicalModel(model string) string {
	if _, rest, ok := strings.Cut(model, "/"); ok {
		model = rest
	}
	for _, table := range []map[string]string{geminiModels, anthropicModels} {
		if id, ok := table[model]; ok {
			return id
		}
	}
	return model
}

// modelCosts covers the models the default fast, reasoning and image
// profiles resolve to on each backend, plus their common overrides.
// Image-output models are priced by their output token rate.
var modelCosts = map[string]ModelCost{
	// Gemini: every profile, including image generation and editing.
	"gemini-2.5-flash":       {0.3, 2.5},
	"gemini-2.5-flash-lite":  {0.1, 0.4},
	"gemini-2.5-pro":         {1.25, 10},
	"gemini-2.5-flash-image": {0.3, 30},
	"gemini-3-flash-preview": {0.5, 3},
	"gemini-3-pro-preview":   {2, 12},

	// Anthropic: text profiles only.
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-opus-4-1-20250805":   {15, 75},

	// OpenAI: text profiles and image generation.
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4o":       {2.5, 10},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-image-1":  {5, 40},
}
