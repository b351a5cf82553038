package api

import (
	"net/http"
)

func (s *Server) handleExportStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"window": "1h",
		"stats":  s.exporter.Stats(),
	})
}
