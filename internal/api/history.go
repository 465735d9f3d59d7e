package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-wires/internal/audit"
)

// handleListHistory returns recorded interactions, newest first.
//
// Query parameters: operator, action, limit, offset. The board comes from
// the route when mounted under /boards/{id}, or from the board query
// parameter otherwise.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.Filter{
		BoardID:  chi.URLParam(r, "id"),
		Operator: q.Get("operator"),
		Action:   q.Get("action"),
	}
	if filter.BoardID == "" {
		filter.BoardID = q.Get("board")
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeBadRequest(w, "limit must be an integer")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeBadRequest(w, "offset must be an integer")
		return
	}

	res, err := s.host.History(r.Context(), filter)
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
