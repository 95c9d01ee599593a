package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valarama/costco-agent-assist/internal/ai/mock"
)

func newService(p *mock.Provider) *Service {
	return NewService(p, nil, 5*time.Second)
}

func TestSuggestions_ParsesWellFormedOutput(t *testing.T) {
	svc := newService(mock.NewProvider())

	bundle := svc.Suggestions(context.Background(), "Agent: Hello\nCustomer: Hi")

	require.NotEmpty(t, bundle.Behavior)
	assert.Equal(t, "No", bundle.Upsell.Possibility)
	assert.Len(t, bundle.Questions, 3)
}

func TestSuggestions_ParsesJSONWrappedInProse(t *testing.T) {
	p := &mock.Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "Here is your analysis:\n```json\n" +
				`{"behavior":["a"],"upsell":{"possibility":"Yes","explanation":"e"},"questions":["q?"]}` +
				"\n```\nLet me know if you need more.", nil
		},
	}
	svc := newService(p)

	bundle := svc.Suggestions(context.Background(), "transcript")

	assert.Equal(t, []string{"a"}, bundle.Behavior)
	assert.Equal(t, "Yes", bundle.Upsell.Possibility)
	assert.Equal(t, []string{"q?"}, bundle.Questions)
}

func TestSuggestions_FallbackOnProviderError(t *testing.T) {
	svc := newService(mock.NewFailingProvider(errors.New("upstream down")))

	bundle := svc.Suggestions(context.Background(), "transcript")

	// The fallback bundle is fixed: 4 tips, upsell "Yes", 4 questions.
	assert.Equal(t, FallbackSuggestions(), bundle)
	assert.Len(t, bundle.Behavior, 4)
	assert.Equal(t, "Yes", bundle.Upsell.Possibility)
	assert.Len(t, bundle.Questions, 4)
}

func TestSuggestions_FallbackOnUnparseableOutput(t *testing.T) {
	p := &mock.Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "I cannot answer in JSON today.", nil
		},
	}
	svc := newService(p)

	bundle := svc.Suggestions(context.Background(), "transcript")

	assert.Equal(t, FallbackSuggestions(), bundle)
}

func TestSuggestions_FallbackOnMalformedJSON(t *testing.T) {
	p := &mock.Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return `{"behavior": "not a list"}`, nil
		},
	}
	svc := newService(p)

	bundle := svc.Suggestions(context.Background(), "transcript")

	assert.Equal(t, FallbackSuggestions(), bundle)
}

func TestSuggestions_PromptEmbedsTranscript(t *testing.T) {
	var captured string
	p := &mock.Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, prompt string) (string, error) {
			captured = prompt
			return "", errors.New("done")
		},
	}
	svc := newService(p)

	svc.Suggestions(context.Background(), "Customer: my fridge is offline")

	assert.Contains(t, captured, "Customer: my fridge is offline")
	assert.Contains(t, captured, "Respond in this exact JSON format")
}

func TestAnswer_TrimsModelOutput(t *testing.T) {
	p := &mock.Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "  Reset the device and rejoin WiFi.\n", nil
		},
	}
	svc := newService(p)

	answer, ok := svc.Answer(context.Background(), "fridge offline")

	assert.True(t, ok)
	assert.Equal(t, "Reset the device and rejoin WiFi.", answer)
}

func TestAnswer_FallbackOnProviderError(t *testing.T) {
	svc := newService(mock.NewFailingProvider(errors.New("upstream down")))

	answer, ok := svc.Answer(context.Background(), "anything")

	assert.False(t, ok)
	assert.Equal(t, "Unable to process request. Please try again.", answer)
}

func TestAnswer_FallbackOnEmptyOutput(t *testing.T) {
	p := &mock.Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "   \n", nil
		},
	}
	svc := newService(p)

	answer, ok := svc.Answer(context.Background(), "anything")

	assert.False(t, ok)
	assert.Equal(t, "Unable to process request. Please try again.", answer)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"wrapped", "before {\"a\":1} after", `{"a":1}`, true},
		{"nested braces span to last", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, true},
		{"no object", "nothing here", "", false},
		{"close before open", "} {", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSON(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
