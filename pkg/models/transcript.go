package models

import "time"

// Speaker roles for transcript turns.
const (
	RoleAgent    = "agent"
	RoleCustomer = "customer"
)

// Message is a single formatted transcript turn. Sentiment is a fixed
// placeholder — per-turn sentiment is not computed by this system — and
// Time is the shared display time of the whole transcript.
type Message struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	Time      string `json:"time"`
}

// TranscriptDoc is the raw transcript document stored in the bucket by
// the external transcription pipeline.
type TranscriptDoc struct {
	SessionID     string `json:"sessionId"`
	AudioFile     string `json:"audioFile"`
	TranscribedAt string `json:"transcribedAt"`
	Transcript    string `json:"transcript"`
}

// ConversationSummary is one entry of the conversation list. Duration and
// Turns are placeholders the transcription pipeline does not yet populate.
type ConversationSummary struct {
	SessionID string `json:"sessionId"`
	Duration  string `json:"duration"`
	Turns     int    `json:"turns"`
	Channel   string `json:"channel"`
	StartTime string `json:"startTime"`
	Timestamp int64  `json:"timestamp"`
}

// NewConversationSummary builds a list entry from a session ID and the
// object's creation time.
func NewConversationSummary(sessionID string, created time.Time) ConversationSummary {
	return ConversationSummary{
		SessionID: sessionID,
		Duration:  "0m00s",
		Turns:     0,
		Channel:   "Audio",
		StartTime: created.Format("Jan 2, 2006, 3:04 PM"),
		Timestamp: created.UnixMilli(),
	}
}
