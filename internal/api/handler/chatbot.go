package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valarama/costco-agent-assist/internal/api/response"
)

// Answerer is the model surface the chatbot handler depends on.
type Answerer interface {
	Answer(ctx context.Context, question string) (answer string, ok bool)
}

// NewChatbotHandler returns the handler for POST /api/chatbot. Model
// failures degrade to a canned answer with success=false; the endpoint
// only errors on bad input.
func NewChatbotHandler(svc Answerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			chatbotBadRequest(w)
			return
		}

		question := strings.TrimSpace(req.Question)
		if question == "" {
			chatbotBadRequest(w)
			return
		}

		answer, ok := svc.Answer(r.Context(), question)
		response.JSON(w, http.StatusOK, map[string]any{
			"success": ok,
			"answer":  answer,
		})
	}
}

func chatbotBadRequest(w http.ResponseWriter) {
	response.JSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"answer":  "Please ask a question",
	})
}
