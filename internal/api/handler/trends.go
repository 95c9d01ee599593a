package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/valarama/costco-agent-assist/internal/api/response"
	"github.com/valarama/costco-agent-assist/internal/store"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

// TrendStore is the warehouse surface the trends handler depends on.
type TrendStore interface {
	Trends(ctx context.Context, period store.Period, days int) (*models.TrendReport, error)
}

type trendsResponse struct {
	TimeSeries          []models.TrendPoint          `json:"time_series"`
	SentimentTrends     []models.SentimentTrendPoint `json:"sentiment_trends"`
	TopicTrends         []models.TopicTrendPoint     `json:"topic_trends"`
	ChannelDistribution []models.ChannelTrendPoint   `json:"channel_distribution"`
	ChangeMetrics       *models.ChangeMetrics        `json:"change_metrics,omitempty"`
	Period              string                       `json:"period"`
	Days                int                          `json:"days"`
	GeneratedAt         string                       `json:"generated_at"`
}

// NewTrendsHandler returns the handler for GET /api/analytics/trends.
func NewTrendsHandler(s TrendStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := store.ParsePeriod(r.URL.Query().Get("period"))

		days := 30
		if v := r.URL.Query().Get("days"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				days = n
			}
		}

		report, err := s.Trends(r.Context(), period, days)
		if err != nil {
			slog.Error("trends query failed", "period", period, "days", days, "error", err)
			response.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":       "Failed to fetch trend data",
				"time_series": []models.TrendPoint{},
			})
			return
		}

		response.JSON(w, http.StatusOK, trendsResponse{
			TimeSeries:          report.TimeSeries,
			SentimentTrends:     report.SentimentTrends,
			TopicTrends:         report.TopicTrends,
			ChannelDistribution: report.ChannelDistribution,
			ChangeMetrics:       report.ChangeMetrics,
			Period:              string(period),
			Days:                days,
			GeneratedAt:         time.Now().UTC().Format(time.RFC3339),
		})
	}
}
