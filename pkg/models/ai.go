package models

import "context"

// TextGenerator is the core interface all language-model integrations
// implement. Never call a specific provider directly — always inject this.
type TextGenerator interface {
	// Generate sends one prompt and returns the raw model text.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name returns the provider identifier (e.g., "gemini", "mock").
	Name() string
}

// Upsell is the upsell assessment of a suggestion bundle.
type Upsell struct {
	Possibility string `json:"possibility"`
	Explanation string `json:"explanation"`
}

// SuggestionBundle is the coaching payload shown in the agent-assist
// panel. Recomputed per request, never stored.
type SuggestionBundle struct {
	Behavior  []string `json:"behavior"`
	Upsell    Upsell   `json:"upsell"`
	Questions []string `json:"questions"`
}
