// Package response writes the flat JSON payloads the dashboard consumes.
// Endpoints have ad-hoc shapes (each carries its own empty-data fields on
// failure), so helpers stay thin instead of enforcing an envelope.
package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes `{"error": message}` with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
