package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valarama/costco-agent-assist/internal/metrics"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

const suggestionPromptTemplate = `You are an AI assistant for Costco Smart Appliance Support agents. Analyze this customer service conversation and provide:

1. **Agent Behavior Suggestions** (3-5 bullet points):
   - What should the agent do next?
   - How to handle the customer's needs professionally?

2. **Upsell Opportunity** (Yes/No + explanation):
   - Can we offer extended warranty, accessories, or related products?

3. **Recommended Questions** (3-4 short questions):
   - Questions the agent should ask to help the customer

Conversation:
%s

Respond in this exact JSON format:
{
  "behavior": ["suggestion 1", "suggestion 2", "suggestion 3"],
  "upsell": {
    "possibility": "Yes" or "No",
    "explanation": "brief explanation"
  },
  "questions": ["question 1?", "question 2?", "question 3?"]
}`

const chatbotPromptTemplate = `You are a Costco Smart Appliance Support assistant with knowledge about smart fridges, washers, switches, and other connected home appliances.

Question: %s

Provide a helpful 2-3 sentence answer about smart appliance setup, WiFi/Bluetooth connectivity, troubleshooting, or Costco products.`

const chatbotFallbackAnswer = "Unable to process request. Please try again."

// FallbackSuggestions is returned whenever the model call fails or its
// output cannot be parsed. The suggestion path never surfaces an error.
func FallbackSuggestions() models.SuggestionBundle {
	return models.SuggestionBundle{
		Behavior: []string{
			"Acknowledge customer's smart appliance needs positively",
			"Ask for specific device model to provide accurate guidance",
			"Provide clear step-by-step instructions",
			"Verify each step completed before moving forward",
		},
		Upsell: models.Upsell{
			Possibility: "Yes",
			Explanation: "Customer has smart appliance - opportunity for extended warranty or accessories",
		},
		Questions: []string{
			"What is your appliance model number?",
			"Is your device powered on and connected?",
			"Do you have the companion app installed?",
			"Would you like help with any other features?",
		},
	}
}

// Service generates coaching suggestions and chatbot answers. Both paths
// degrade to canned content on any upstream failure.
type Service struct {
	provider models.TextGenerator
	metrics  *metrics.Metrics
	timeout  time.Duration
}

// NewService creates a new Service. metrics may be nil.
func NewService(provider models.TextGenerator, m *metrics.Metrics, timeout time.Duration) *Service {
	return &Service{provider: provider, metrics: m, timeout: timeout}
}

// Suggestions builds the coaching prompt for a transcript, calls the model
// once, and parses the expected JSON object out of the free-form reply.
// Any failure — transport, timeout, or unparseable output — yields the
// static fallback bundle instead of an error.
func (s *Service) Suggestions(ctx context.Context, transcript string) models.SuggestionBundle {
	bundle, err := s.generateSuggestions(ctx, transcript)
	if err != nil {
		slog.Warn("suggestion generation failed, using fallback",
			"provider", s.provider.Name(), "error", err)
		return FallbackSuggestions()
	}
	return bundle
}

func (s *Service) generateSuggestions(ctx context.Context, transcript string) (models.SuggestionBundle, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.provider.Generate(ctx, fmt.Sprintf(suggestionPromptTemplate, transcript))
	s.observe(err)
	if err != nil {
		return models.SuggestionBundle{}, fmt.Errorf("generate suggestions: %w", err)
	}

	span, ok := extractJSON(raw)
	if !ok {
		return models.SuggestionBundle{}, fmt.Errorf("%w: no JSON object in output", ErrInvalidResponse)
	}

	var bundle models.SuggestionBundle
	if err := json.Unmarshal([]byte(span), &bundle); err != nil {
		return models.SuggestionBundle{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return bundle, nil
}

// Answer asks the model the user's free-text question. On failure it
// returns the canned answer with ok=false rather than an error.
func (s *Service) Answer(ctx context.Context, question string) (answer string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.provider.Generate(ctx, fmt.Sprintf(chatbotPromptTemplate, question))
	s.observe(err)
	if err != nil {
		slog.Warn("chatbot answer failed, using fallback",
			"provider", s.provider.Name(), "error", err)
		return chatbotFallbackAnswer, false
	}

	answer = strings.TrimSpace(raw)
	if answer == "" {
		s.observe(ErrEmptyResponse)
		return chatbotFallbackAnswer, false
	}
	return answer, true
}

func (s *Service) observe(err error) {
	if s.metrics != nil {
		s.metrics.ObserveModelCall(s.provider.Name(), err)
	}
}
