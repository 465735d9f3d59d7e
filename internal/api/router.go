package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-wires/internal/panel"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get(s.wsPath(), s.handleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", s.handleListBoards)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetBoard)
				r.Patch("/", s.handleRenameBoard)
				r.Post("/panel", s.handleTogglePanel)
				r.Post("/obstruction", s.handleSetObstruction)
				r.Post("/wires/{wireID}", s.handleWireAction)
				r.Get("/history", s.handleListHistory)
			})
		})

		r.Get("/history", s.handleListHistory)

		r.Route("/operators", func(r chi.Router) {
			r.Get("/", s.handleListOperators)
			r.Post("/{name}/tool", s.handleSetTool)
			r.Post("/{name}/position", s.handleMoveOperator)
		})

		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", s.handleListLayouts)
			r.Delete("/{id}", s.handleDeleteLayout)
		})
	})

	// Board viewer (SPA fallback for every other path)
	r.Handle("/*", panel.Handler(s.cfg.PanelDir))

	return r
}

func (s *Server) wsPath() string {
	if s.wsCfg.Path == "" {
		return "/ws"
	}
	return s.wsCfg.Path
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	backends := make(map[string]bool, len(s.backends))
	for name, b := range s.backends {
		backends[name] = b.IsConnected()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"boards":   len(s.host.BoardIDs()),
		"backends": backends,
	})
}
