package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListLayouts returns the ids of every stored wire layout.
func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.host.LayoutIDs(r.Context())
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"layouts": ids,
		"count":   len(ids),
	})
}

// handleDeleteLayout forgets a stored layout. Boards built with its id
// afterwards capture a new one.
func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.host.DeleteLayout(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeHostError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
