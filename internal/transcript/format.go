// Package transcript reshapes raw transcript text into display turns.
package transcript

import (
	"regexp"
	"strings"
	"time"

	"github.com/valarama/costco-agent-assist/pkg/models"
)

const (
	agentPrefix    = "Agent:"
	customerPrefix = "Customer:"

	placeholderSentiment = "Neutral"
)

var (
	// The transcription pipeline leaks the literal word "asterisk" into
	// transcripts; it is stripped as a whole word, case-insensitively.
	artifactRe   = regexp.MustCompile(`(?i)\basterisk\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Format splits raw transcript text into ordered turns. Lines starting with
// "Agent:" or "Customer:" are tagged and stripped of the prefix; anything
// else defaults to the agent. Every turn shares the transcription time as
// its display time — per-turn timing is not available from the source.
// Empty input yields an empty (non-nil) slice.
func Format(raw string, transcribedAt time.Time) []models.Message {
	displayTime := transcribedAt.Format("3:04:05 PM")

	messages := []models.Message{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		role := models.RoleAgent
		text := line
		switch {
		case strings.HasPrefix(line, agentPrefix):
			text = strings.TrimSpace(strings.TrimPrefix(line, agentPrefix))
		case strings.HasPrefix(line, customerPrefix):
			role = models.RoleCustomer
			text = strings.TrimSpace(strings.TrimPrefix(line, customerPrefix))
		}

		text = artifactRe.ReplaceAllString(text, "")
		text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

		messages = append(messages, models.Message{
			Role:      role,
			Text:      text,
			Sentiment: placeholderSentiment,
			Time:      displayTime,
		})
	}
	return messages
}
