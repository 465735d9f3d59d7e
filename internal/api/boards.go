package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-wires/internal/host"
	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

// RenameBoardRequest is the body of PATCH /boards/{id}.
type RenameBoardRequest struct {
	Name string `json:"name"`
}

// PanelRequest is the body of POST /boards/{id}/panel.
type PanelRequest struct {
	Operator string `json:"operator"`
}

// PanelResponse reports whether the panel was toggled and its new state.
type PanelResponse struct {
	OK    bool             `json:"ok"`
	Panel wires.PanelState `json:"panel"`
}

// WireActionRequest is the body of POST /boards/{id}/wires/{wireID}.
type WireActionRequest struct {
	Operator string `json:"operator"`
	Action   string `json:"action"`
}

// WireActionResponse is the outcome of a wire action. Feedback is the
// operator-facing key, Message its configured text.
type WireActionResponse struct {
	OK       bool   `json:"ok"`
	Feedback string `json:"feedback,omitempty"`
	Message  string `json:"message,omitempty"`
}

// SetToolRequest is the body of POST /operators/{name}/tool. An empty
// tool empties the operator's hand.
type SetToolRequest struct {
	Tool string `json:"tool"`
}

// ObstructionRequest is the body of POST /boards/{id}/obstruction.
type ObstructionRequest struct {
	Obstructed *bool `json:"obstructed"`
}

// MoveOperatorRequest is the body of POST /operators/{name}/position.
type MoveOperatorRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// handleListBoards returns every board.
func (s *Server) handleListBoards(w http.ResponseWriter, _ *http.Request) {
	boards := s.host.Views()
	writeJSON(w, http.StatusOK, map[string]any{
		"boards": boards,
		"count":  len(boards),
	})
}

// handleGetBoard returns one board.
func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	view, err := s.host.View(chi.URLParam(r, "id"))
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleRenameBoard changes a board's display name.
func (s *Server) handleRenameBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req RenameBoardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	if err := s.host.RenameBoard(r.Context(), id, req.Name); err != nil {
		s.writeHostError(w, r, err)
		return
	}

	view, err := s.host.View(id)
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSetObstruction blocks or clears access to a board.
func (s *Server) handleSetObstruction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ObstructionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Obstructed == nil {
		writeBadRequest(w, "obstructed is required")
		return
	}

	if err := s.host.SetObstructed(id, *req.Obstructed); err != nil {
		s.writeHostError(w, r, err)
		return
	}
	view, err := s.host.View(id)
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleTogglePanel opens or closes the maintenance panel with the
// operator's held tool.
func (s *Server) handleTogglePanel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PanelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Operator == "" {
		writeBadRequest(w, "operator is required")
		return
	}

	ok, err := s.host.TogglePanel(id, req.Operator)
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}
	board, err := s.host.Board(id)
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PanelResponse{OK: ok, Panel: board.Panel()})
}

// handleWireAction cuts, mends or pulses a wire.
func (s *Server) handleWireAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wireID, err := strconv.Atoi(chi.URLParam(r, "wireID"))
	if err != nil || wireID < 1 {
		writeBadRequest(w, "wire id must be a positive integer")
		return
	}

	var req WireActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Operator == "" {
		writeBadRequest(w, "operator is required")
		return
	}
	action, err := wires.ParseAction(req.Action)
	if err != nil {
		writeBadRequest(w, "action must be one of cut, mend, pulse")
		return
	}

	res, err := s.host.Act(id, req.Operator, wireID, action)
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}

	resp := WireActionResponse{OK: res.OK}
	if !res.OK {
		resp.Feedback = string(res.Feedback)
		resp.Message = s.host.FeedbackText(res.Feedback)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListOperators returns every operator.
func (s *Server) handleListOperators(w http.ResponseWriter, _ *http.Request) {
	ops := s.host.Operators()
	writeJSON(w, http.StatusOK, map[string]any{
		"operators": ops,
		"count":     len(ops),
	})
}

// handleSetTool hands an operator a tool.
func (s *Server) handleSetTool(w http.ResponseWriter, r *http.Request) {
	var req SetToolRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := s.host.SetOperatorTool(chi.URLParam(r, "name"), req.Tool)
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleMoveOperator moves an operator on the floor plan.
func (s *Server) handleMoveOperator(w http.ResponseWriter, r *http.Request) {
	var req MoveOperatorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.X == nil || req.Y == nil {
		writeBadRequest(w, "x and y are required")
		return
	}

	view, err := s.host.MoveOperator(chi.URLParam(r, "name"), host.Position{X: *req.X, Y: *req.Y})
	if err != nil {
		s.writeHostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// writeHostError maps host and wires errors to HTTP responses.
func (s *Server) writeHostError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, host.ErrBoardNotFound),
		errors.Is(err, host.ErrOperatorNotFound),
		errors.Is(err, wires.ErrWireNotFound),
		errors.Is(err, wires.ErrLayoutNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, host.ErrUnknownTool),
		errors.Is(err, wires.ErrUnknownAction):
		writeBadRequest(w, err.Error())
	case errors.Is(err, wires.ErrNotStarted),
		errors.Is(err, host.ErrHistoryDisabled),
		errors.Is(err, host.ErrLayoutsDisabled):
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeInternalError(w, "internal server error")
	}
}
