package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"job-board-api/internal/auth"
	"job-board-api/internal/listing"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps domain errors onto status codes. Anything outside
// the client-facing taxonomy is logged and surfaced as a generic 500;
// store failures never leak driver detail to the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case listing.IsValidation(err):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrUnauthenticated):
		jsonError(w, "Invalid token", http.StatusUnauthorized)
	case errors.Is(err, listing.ErrForbidden):
		jsonError(w, "Not authorized", http.StatusForbidden)
	case errors.Is(err, listing.ErrNotFound):
		jsonError(w, "Job not found", http.StatusNotFound)
	default:
		s.logger.Error("request failed", zap.Error(err))
		jsonError(w, "Server error", http.StatusInternalServerError)
	}
}
