// Package gemini implements the text generator on Vertex AI Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"github.com/valarama/costco-agent-assist/internal/config"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

// Provider implements models.TextGenerator using Vertex AI Gemini.
type Provider struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

// NewProvider creates a Gemini provider using ambient credentials.
func NewProvider(ctx context.Context, cfg config.GeminiConfig) (*Provider, error) {
	c, err := vertexgenai.NewClient(ctx, cfg.ProjectID, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &Provider{client: c, model: c.GenerativeModel(modelName)}, nil
}

func (p *Provider) Close() error { return p.client.Close() }

func (p *Provider) Name() string { return "gemini" }

// Generate sends one prompt and concatenates the text parts of the first
// candidate. No retry — the callers degrade to canned content on failure.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in model response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(vertexgenai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

var _ models.TextGenerator = (*Provider)(nil)
