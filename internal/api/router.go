// Package api wires handlers and middleware into the HTTP router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/valarama/costco-agent-assist/internal/api/middleware"
	"github.com/valarama/costco-agent-assist/internal/api/response"
	"github.com/valarama/costco-agent-assist/internal/metrics"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit
	Metrics   *metrics.Metrics

	HealthHandler        http.HandlerFunc
	DashboardHandler     http.HandlerFunc
	TrendsHandler        http.HandlerFunc
	ListLeadsHandler     http.HandlerFunc
	UpdateLeadHandler    http.HandlerFunc
	ExportHandler        http.HandlerFunc
	ChatbotHandler       http.HandlerFunc
	ConversationsHandler http.HandlerFunc
	LatestSessionHandler http.HandlerFunc
	TranscriptHandler    http.HandlerFunc
}

// NewRouter builds the Chi router with the middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Dashboard API
	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Get("/api/analytics/dashboard", orNotImplemented(deps.DashboardHandler))
		r.Get("/api/analytics/trends", orNotImplemented(deps.TrendsHandler))
		r.Get("/api/analytics/leads", orNotImplemented(deps.ListLeadsHandler))
		r.Post("/api/analytics/leads", orNotImplemented(deps.UpdateLeadHandler))
		r.Get("/api/analytics/export", orNotImplemented(deps.ExportHandler))

		r.Post("/api/chatbot", orNotImplemented(deps.ChatbotHandler))

		r.Get("/api/conversations", orNotImplemented(deps.ConversationsHandler))
		r.Get("/api/latest-session", orNotImplemented(deps.LatestSessionHandler))
		r.Get("/api/transcript", orNotImplemented(deps.TranscriptHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "Endpoint not yet implemented")
	}
}
