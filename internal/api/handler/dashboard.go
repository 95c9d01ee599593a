// Package handler contains the HTTP handlers for the dashboard API.
// Handlers depend on narrow interfaces so tests can swap in fakes.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/valarama/costco-agent-assist/internal/api/response"
	"github.com/valarama/costco-agent-assist/internal/store"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

// SnapshotStore is the warehouse surface the dashboard handler depends on.
type SnapshotStore interface {
	DashboardSnapshot(ctx context.Context, rng store.TimeRange) (*models.DashboardSnapshot, error)
}

type dashboardResponse struct {
	Metrics           models.DashboardMetrics    `json:"metrics"`
	HourlyVolume      []models.HourBucket        `json:"hourly_volume"`
	TopTopics         []models.TopicCount        `json:"top_topics"`
	TopProducts       []models.ProductCount      `json:"top_products"`
	IssueDistribution []models.IssueCategoryStat `json:"issue_distribution"`
	TimeRange         string                     `json:"timeRange"`
	GeneratedAt       string                     `json:"generated_at"`
}

// NewDashboardHandler returns the handler for GET /api/analytics/dashboard.
// Unknown range values fall back to today rather than erroring.
func NewDashboardHandler(s SnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng := store.ParseTimeRange(r.URL.Query().Get("range"))

		snap, err := s.DashboardSnapshot(r.Context(), rng)
		if err != nil {
			slog.Error("dashboard snapshot failed", "range", rng, "error", err)
			response.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "Failed to fetch dashboard metrics",
				"metrics": nil,
			})
			return
		}

		response.JSON(w, http.StatusOK, dashboardResponse{
			Metrics:           snap.Metrics,
			HourlyVolume:      snap.HourlyVolume,
			TopTopics:         snap.TopTopics,
			TopProducts:       snap.TopProducts,
			IssueDistribution: snap.IssueDistribution,
			TimeRange:         string(rng),
			GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		})
	}
}
