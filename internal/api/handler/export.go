package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/valarama/costco-agent-assist/internal/api/response"
	"github.com/valarama/costco-agent-assist/internal/export"
	"github.com/valarama/costco-agent-assist/internal/store"
)

// NewExportHandler returns the handler for GET /api/analytics/export: the
// dashboard snapshot as an xlsx attachment.
func NewExportHandler(s SnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng := store.ParseTimeRange(r.URL.Query().Get("range"))

		snap, err := s.DashboardSnapshot(r.Context(), rng)
		if err != nil {
			slog.Error("export snapshot failed", "range", rng, "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to export dashboard metrics")
			return
		}

		// Render into memory first so a workbook failure still produces a
		// clean JSON error instead of a truncated attachment.
		generatedAt := time.Now().UTC()
		var buf bytes.Buffer
		if err := export.WriteDashboardXLSX(&buf, snap, string(rng), generatedAt); err != nil {
			slog.Error("export workbook failed", "range", rng, "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to export dashboard metrics")
			return
		}

		filename := fmt.Sprintf("dashboard-%s-%s.xlsx", rng, generatedAt.Format("20060102-150405"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
