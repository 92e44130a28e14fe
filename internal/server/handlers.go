package server

import (
	"encoding/json"
	"net/http"

	"job-board-api/internal/models"

	"github.com/gorilla/mux"
)

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input models.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	l, err := s.svc.Create(r.Context(), subjectFrom(r.Context()), input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	// mine is best-effort: a missing or bad credential just means no
	// owner restriction, never a 401 on this route.
	filters := models.ParseSearchFilters(r.URL.Query(), s.optionalSubject(r))

	result, err := s.svc.Search(r.Context(), filters)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	listings, err := s.svc.Mine(r.Context(), subjectFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var input models.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	l, err := s.svc.Update(r.Context(), subjectFrom(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), subjectFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Job deleted successfully"})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
