package handler

import (
	"log/slog"
	"net/http"

	"github.com/valarama/costco-agent-assist/internal/api/response"
	"github.com/valarama/costco-agent-assist/internal/objectstore"
)

// NewLatestSessionHandler returns the handler for GET /api/latest-session.
// The session ID is null when the bucket holds no transcripts.
func NewLatestSessionHandler(os objectstore.ObjectStore, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objects, err := os.List(r.Context(), prefix)
		if err != nil {
			slog.Error("latest session lookup failed", "prefix", prefix, "error", err)
			response.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":     "Failed to fetch latest session",
				"sessionId": nil,
			})
			return
		}

		var latest *objectstore.Object
		for i := range objects {
			if sessionIDFromObject(objects[i].Name, prefix) == "" {
				continue
			}
			if latest == nil || objects[i].Created.After(latest.Created) {
				latest = &objects[i]
			}
		}

		var sessionID any
		if latest != nil {
			sessionID = sessionIDFromObject(latest.Name, prefix)
		}
		response.JSON(w, http.StatusOK, map[string]any{
			"sessionId": sessionID,
			"source":    sourceName,
		})
	}
}
