package api

import (
	"net/http"

	"github.com/openclaw/qrgen/store"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}

	limit := queryInt(r, "limit", 50)
	target := r.URL.Query().Get("target")

	gens, err := s.Store.List(r.Context(), target, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if gens == nil {
		gens = []store.Generation{}
	}

	writeJSON(w, http.StatusOK, gens)
}
