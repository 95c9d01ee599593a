package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/valarama/costco-agent-assist/internal/api/response"
	"github.com/valarama/costco-agent-assist/internal/store"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

// LeadStore is the warehouse surface the lead handlers depend on.
type LeadStore interface {
	ListLeads(ctx context.Context, filter store.LeadFilter) ([]*models.Lead, error)
	LeadStats(ctx context.Context) (*models.LeadStats, error)
	UpdateLead(ctx context.Context, update store.LeadUpdate) ([]string, error)
}

type leadFilters struct {
	Status   string `json:"status"`
	LeadType string `json:"leadType"`
	Limit    int    `json:"limit"`
}

type leadsResponse struct {
	Leads       []*models.Lead    `json:"leads"`
	Stats       *models.LeadStats `json:"stats"`
	Filters     leadFilters       `json:"filters"`
	GeneratedAt string            `json:"generated_at"`
}

// NewListLeadsHandler returns the handler for GET /api/analytics/leads.
// Stats are always computed over the full 30-day window, ignoring the
// list filters.
func NewListLeadsHandler(s LeadStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		// The default view is the untouched queue; "all" must be asked for.
		status := q.Get("status")
		if status == "" {
			status = models.LeadStatusNew
		}
		leadType := q.Get("type")
		if leadType == "" {
			leadType = "all"
		}
		limit := 0
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		filter := store.LeadFilter{Status: status, LeadType: leadType, Limit: limit}

		leads, err := s.ListLeads(r.Context(), filter)
		if err != nil {
			slog.Error("lead list failed", "status", status, "type", leadType, "error", err)
			leadsError(w)
			return
		}

		stats, err := s.LeadStats(r.Context())
		if err != nil {
			slog.Error("lead stats failed", "error", err)
			leadsError(w)
			return
		}

		response.JSON(w, http.StatusOK, leadsResponse{
			Leads: leads,
			Stats: stats,
			Filters: leadFilters{
				Status:   status,
				LeadType: leadType,
				Limit:    filter.ClampedLimit(),
			},
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func leadsError(w http.ResponseWriter) {
	response.JSON(w, http.StatusInternalServerError, map[string]any{
		"error": "Failed to fetch leads",
		"leads": []*models.Lead{},
		"stats": nil,
	})
}

// NewUpdateLeadHandler returns the handler for POST /api/analytics/leads.
// Only the supplied optional fields are written; the response reports
// which columns changed.
func NewUpdateLeadHandler(s LeadStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LeadID          string     `json:"lead_id"`
			Status          string     `json:"status"`
			ContactedAt     *time.Time `json:"contacted_at"`
			ConvertedAt     *time.Time `json:"converted_at"`
			ConversionValue *float64   `json:"conversion_value"`
			AssignedTo      *string    `json:"assigned_to"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if req.LeadID == "" || req.Status == "" {
			response.Error(w, http.StatusBadRequest, "lead_id and status are required")
			return
		}
		if !models.ValidLeadStatus(req.Status) {
			response.Error(w, http.StatusBadRequest, "invalid status")
			return
		}

		updated, err := s.UpdateLead(r.Context(), store.LeadUpdate{
			LeadID:          req.LeadID,
			Status:          req.Status,
			ContactedAt:     req.ContactedAt,
			ConvertedAt:     req.ConvertedAt,
			ConversionValue: req.ConversionValue,
			AssignedTo:      req.AssignedTo,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "lead not found")
				return
			}
			slog.Error("lead update failed", "lead_id", req.LeadID, "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to update lead")
			return
		}

		response.JSON(w, http.StatusOK, map[string]any{
			"success":        true,
			"lead_id":        req.LeadID,
			"updated_fields": updated,
		})
	}
}
