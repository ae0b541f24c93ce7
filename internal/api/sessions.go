package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/metroboard/metroboard/internal/board"
	"github.com/metroboard/metroboard/internal/geo"
	"github.com/metroboard/metroboard/internal/location"
)

// createSessionRequest is the client's geolocation outcome: either a
// coordinate or an error class. An empty body means no location at all.
type createSessionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     string   `json:"error"`
}

type selectRequest struct {
	Station     string `json:"station"`
	Route       string `json:"route"`
	Destination string `json:"destination"`
}

// handleCreateSession starts a session. A usable coordinate auto-selects
// the nearest station; every failed geolocation outcome falls back to
// manual search identically.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.sendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, ok := location.Parse(req.Error)
	if !ok {
		s.sendErrorResponse(w, http.StatusBadRequest, "Unknown location error: "+req.Error)
		return
	}

	var point *geo.Coordinate
	if outcome.OK() && req.Latitude != nil && req.Longitude != nil {
		if !geo.Valid(*req.Latitude, *req.Longitude) {
			s.sendErrorResponse(w, http.StatusBadRequest, "Invalid coordinates")
			return
		}
		point = &geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	session := s.hub.Create(point)
	s.sendResponseStatus(w, http.StatusCreated, sessionResponse(session))
}

// handleGetSession returns the session's current snapshot.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sendResponse(w, sessionResponse(session))
}

// handleDeleteSession tears a session down.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.hub.Delete(id) {
		s.sendErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionSelect replaces the session's selection. Station, route and
// destination apply in order; each reset follows the first-line /
// first-direction rule.
func (s *Server) handleSessionSelect(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Station == "" && req.Route == "" && req.Destination == "" {
		s.sendErrorResponse(w, http.StatusBadRequest, "Nothing to select")
		return
	}

	if req.Station != "" {
		station := s.store.GetStation(req.Station)
		if station == nil {
			s.sendErrorResponse(w, http.StatusNotFound, "Station not found")
			return
		}
		session.SelectStation(station)
	}
	if req.Route != "" {
		if err := session.SelectLine(req.Route); err != nil {
			s.sendSelectionError(w, err)
			return
		}
	}
	if req.Destination != "" {
		if err := session.SelectDirection(req.Destination); err != nil {
			s.sendSelectionError(w, err)
			return
		}
	}

	s.sendResponse(w, sessionResponse(session))
}

// handleNextTrain advances the train index cyclically forward.
func (s *Server) handleNextTrain(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.NextTrain()
	s.sendResponse(w, sessionResponse(session))
}

// handlePrevTrain advances the train index cyclically backward.
func (s *Server) handlePrevTrain(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.PrevTrain()
	s.sendResponse(w, sessionResponse(session))
}

// handleSessionWatch streams one snapshot per tick over SSE until the
// client disconnects.
func (s *Server) handleSessionWatch(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		s.sendErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snapshot := range session.Watch(r.Context(), s.tickInterval) {
		data, err := json.Marshal(snapshot)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}

// session resolves the {id} path variable, writing a 404 when unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*board.Session, bool) {
	id := mux.Vars(r)["id"]
	session, err := s.hub.Get(id)
	if err != nil {
		s.sendErrorResponse(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return session, true
}

func (s *Server) sendSelectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, board.ErrNoSelection):
		s.sendErrorResponse(w, http.StatusBadRequest, "No station selected")
	case errors.Is(err, board.ErrUnknownLine), errors.Is(err, board.ErrUnknownDirection):
		s.sendErrorResponse(w, http.StatusNotFound, err.Error())
	default:
		s.sendErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// sessionResponse wraps a session's snapshot in the response envelope.
func sessionResponse(session *board.Session) Response {
	snapshot := session.Snapshot()
	return Response{
		Data: Resource{
			Type: "session",
			ID:   session.ID,
			Attributes: map[string]interface{}{
				"snapshot": snapshot,
			},
		},
		Links: map[string]string{
			"self":  "/sessions/" + session.ID,
			"watch": "/sessions/" + session.ID + "/watch",
		},
	}
}
