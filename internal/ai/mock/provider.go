// Package mock provides a deterministic text generator for tests and
// offline runs.
package mock

import (
	"context"

	"github.com/valarama/costco-agent-assist/pkg/models"
)

// Provider satisfies models.TextGenerator for testing.
type Provider struct {
	Name_        string
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (p *Provider) Name() string { return p.Name_ }

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.GenerateFunc != nil {
		return p.GenerateFunc(ctx, prompt)
	}
	return "", nil
}

// NewProvider returns a Provider that always answers with a well-formed
// suggestion bundle, so the suggestion path parses it regardless of prompt.
func NewProvider() *Provider {
	return &Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return `{
  "behavior": ["Greet the customer", "Confirm the appliance model", "Offer setup help"],
  "upsell": {"possibility": "No", "explanation": "Mock response"},
  "questions": ["What model do you have?", "Is the device powered on?", "Is WiFi available?"]
}`, nil
		},
	}
}

// NewFailingProvider returns a Provider that always returns the given error.
func NewFailingProvider(err error) *Provider {
	return &Provider{
		Name_: "mock-failing",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// Compile-time check that Provider implements TextGenerator.
var _ models.TextGenerator = (*Provider)(nil)
