package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/valarama/costco-agent-assist/internal/api/response"
	"github.com/valarama/costco-agent-assist/internal/objectstore"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

const (
	// conversationListCap bounds the conversation list to the newest 50
	// sessions; the dashboard never pages further back.
	conversationListCap = 50

	sourceName = "gcs-bucket"
)

// sessionIDFromObject derives the session ID from a transcript object
// name: the path under prefix with the .json extension removed. Empty
// when the object is not a transcript document.
func sessionIDFromObject(name, prefix string) string {
	rest := strings.TrimPrefix(name, prefix)
	if !strings.HasSuffix(rest, ".json") {
		return ""
	}
	return strings.TrimSuffix(rest, ".json")
}

// NewConversationsHandler returns the handler for GET /api/conversations:
// the newest sessions in the bucket, newest first.
func NewConversationsHandler(os objectstore.ObjectStore, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objects, err := os.List(r.Context(), prefix)
		if err != nil {
			slog.Error("conversation list failed", "prefix", prefix, "error", err)
			response.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":         "Failed to fetch conversations",
				"conversations": []models.ConversationSummary{},
			})
			return
		}

		sort.Slice(objects, func(i, j int) bool {
			return objects[i].Created.After(objects[j].Created)
		})

		conversations := make([]models.ConversationSummary, 0, conversationListCap)
		for _, obj := range objects {
			sessionID := sessionIDFromObject(obj.Name, prefix)
			if sessionID == "" {
				continue
			}
			conversations = append(conversations, models.NewConversationSummary(sessionID, obj.Created))
			if len(conversations) == conversationListCap {
				break
			}
		}

		response.JSON(w, http.StatusOK, map[string]any{
			"conversations": conversations,
			"source":        sourceName,
		})
	}
}
