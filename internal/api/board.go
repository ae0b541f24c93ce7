package api

import (
	"net/http"

	"github.com/metroboard/metroboard/internal/board"
)

// handleBoard serves a stateless, one-shot departure board for
// ?station=&route=&destination=. Route and destination default to the
// station's first line and that line's first direction.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	name := query.Get("station")
	if name == "" {
		s.sendErrorResponse(w, http.StatusBadRequest, "station query parameter is required")
		return
	}

	station := s.store.GetStation(name)
	if station == nil {
		s.sendErrorResponse(w, http.StatusNotFound, "Station not found")
		return
	}

	sel := board.Selection{Station: station, TrainIndex: board.NoTrain}

	if routeID := query.Get("route"); routeID != "" {
		sel.Line = station.FindLine(routeID)
		if sel.Line == nil {
			s.sendErrorResponse(w, http.StatusNotFound, "Line not served at this station")
			return
		}
	} else if len(station.Lines) > 0 {
		sel.Line = station.Lines[0]
	}

	if destination := query.Get("destination"); destination != "" {
		if sel.Line == nil {
			s.sendErrorResponse(w, http.StatusBadRequest, "destination requires a line")
			return
		}
		sel.Direction = sel.Line.FindDirection(destination)
		if sel.Direction == nil {
			s.sendErrorResponse(w, http.StatusNotFound, "No such direction on this line")
			return
		}
	} else if sel.Line != nil && len(sel.Line.Directions) > 0 {
		sel.Direction = sel.Line.Directions[0]
	}

	snapshot := board.Resolve(sel, s.clock)

	response := Response{
		Data: Resource{
			Type: "board",
			ID:   station.Name,
			Attributes: map[string]interface{}{
				"snapshot": snapshot,
			},
		},
		Links: map[string]string{
			"self": "/board",
		},
	}

	s.sendResponse(w, response)
}
