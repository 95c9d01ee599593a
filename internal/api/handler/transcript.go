package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/valarama/costco-agent-assist/internal/api/response"
	"github.com/valarama/costco-agent-assist/internal/objectstore"
	"github.com/valarama/costco-agent-assist/internal/transcript"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

// Suggester is the model surface the transcript handler depends on.
type Suggester interface {
	Suggestions(ctx context.Context, transcript string) models.SuggestionBundle
}

type transcriptResponse struct {
	Messages      []models.Message        `json:"messages"`
	Suggestions   models.SuggestionBundle `json:"suggestions"`
	SessionID     string                  `json:"sessionId"`
	AudioFile     string                  `json:"audioFile"`
	TranscribedAt string                  `json:"transcribedAt"`
}

// NewTranscriptHandler returns the handler for GET /api/transcript: the
// formatted turns of one session plus a fresh coaching bundle. The
// suggestion step degrades internally and never fails the request.
func NewTranscriptHandler(os objectstore.ObjectStore, prefix string, svc Suggester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionId")
		if sessionID == "" {
			response.Error(w, http.StatusBadRequest, "sessionId is required")
			return
		}

		raw, err := os.Read(r.Context(), prefix+sessionID+".json")
		if err != nil {
			if errors.Is(err, objectstore.ErrNotFound) {
				response.JSON(w, http.StatusNotFound, map[string]any{
					"error":    "Transcript not found",
					"messages": []models.Message{},
				})
				return
			}
			slog.Error("transcript read failed", "session_id", sessionID, "error", err)
			response.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":    "Failed to fetch transcript",
				"messages": []models.Message{},
			})
			return
		}

		var doc models.TranscriptDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			slog.Error("transcript parse failed", "session_id", sessionID, "error", err)
			response.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":    "Failed to fetch transcript",
				"messages": []models.Message{},
			})
			return
		}

		transcribedAt, err := time.Parse(time.RFC3339, doc.TranscribedAt)
		if err != nil {
			transcribedAt = time.Now()
		}

		messages := transcript.Format(doc.Transcript, transcribedAt)
		suggestions := svc.Suggestions(r.Context(), doc.Transcript)

		response.JSON(w, http.StatusOK, transcriptResponse{
			Messages:      messages,
			Suggestions:   suggestions,
			SessionID:     sessionID,
			AudioFile:     doc.AudioFile,
			TranscribedAt: doc.TranscribedAt,
		})
	}
}
