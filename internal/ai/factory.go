package ai

import (
	"context"
	"fmt"

	"github.com/valarama/costco-agent-assist/internal/ai/gemini"
	"github.com/valarama/costco-agent-assist/internal/ai/mock"
	"github.com/valarama/costco-agent-assist/internal/config"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

// NewProvider constructs the configured text generator.
// Called once at server startup.
func NewProvider(ctx context.Context, cfg config.AIConfig) (models.TextGenerator, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewProvider(ctx, cfg.Gemini)
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, mock", cfg.Provider)
	}
}
