package api

import (
	"bytes"
	"net/http"

	"github.com/dgallion1/figport/internal/figma"
	"github.com/dgallion1/figport/internal/routemap"
)

// handleRoutes turns an uploaded document into the route-map CSV.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.readDocument(w, r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := figma.ParseBytes(data)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	records := routemap.Collect(doc, routemap.DefaultConfig())
	var buf bytes.Buffer
	if err := routemap.WriteCSV(&buf, records); err != nil {
		s.log.Error("write route csv", "error", err)
		jsonError(w, "failed to write csv", http.StatusInternalServerError)
		return
	}

	s.log.Info("route map built", "routes", len(records))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="route_map.csv"`)
	w.Write(buf.Bytes())
}
