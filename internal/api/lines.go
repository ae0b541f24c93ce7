package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/metroboard/metroboard/internal/store"
)

// handleLines handles the lines collection endpoint
func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	lines := s.store.AllLines()

	resources := make([]Resource, len(lines))
	for i, line := range lines {
		resources[i] = lineToResource(line)
	}

	response := Response{
		Data: resources,
		Links: map[string]string{
			"self": "/lines",
		},
	}

	s.sendResponse(w, response)
}

// handleLine handles the line detail endpoint
func (s *Server) handleLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	line := s.store.GetLine(id)
	if line == nil {
		s.sendErrorResponse(w, http.StatusNotFound, "Line not found")
		return
	}

	response := Response{
		Data: lineToResource(line),
		Links: map[string]string{
			"self": "/lines/" + id,
		},
	}

	s.sendResponse(w, response)
}

// lineToResource converts an aggregated line view to a JSON:API resource
func lineToResource(line *store.LineInfo) Resource {
	return Resource{
		Type: "line",
		ID:   line.RouteID,
		Attributes: map[string]interface{}{
			"display_name": line.DisplayName,
			"color":        line.Color,
			"stations":     line.Stations,
		},
		Links: map[string]string{
			"self": "/lines/" + line.RouteID,
		},
	}
}
