package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/metroboard/metroboard/internal/filter"
	"github.com/metroboard/metroboard/internal/geo"
	"github.com/metroboard/metroboard/internal/models"
	"github.com/metroboard/metroboard/internal/store"
)

// handleStations handles the stations collection endpoint
func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	options := filter.NewOptions(r.URL.Query())

	// Get all stations in catalog order
	stations := s.store.AllStations()

	// Apply filters
	if options.HasFilter("name") {
		nameFilter := options.GetFilter("name")
		stations = filter.Filter(stations, func(station *models.Station) bool {
			for _, name := range nameFilter {
				if strings.Contains(station.Name, name) {
					return true
				}
			}
			return false
		})
	}

	if options.HasFilter("route") {
		routeFilter := options.GetFilter("route")
		stations = filter.Filter(stations, func(station *models.Station) bool {
			for _, routeID := range routeFilter {
				if station.FindLine(routeID) != nil {
					return true
				}
			}
			return false
		})
	}

	// Convert to JSON:API resources
	resources := make([]Resource, len(stations))
	for i, station := range stations {
		resources[i] = stationToResource(station)
	}

	// Create response
	response := Response{
		Data: resources,
		Links: map[string]string{
			"self": "/stations",
		},
	}

	s.sendResponse(w, response)
}

// handleStation handles the station detail endpoint
func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]

	station := s.store.GetStation(name)
	if station == nil {
		s.sendErrorResponse(w, http.StatusNotFound, "Station not found")
		return
	}

	// Create response
	response := Response{
		Data: stationToResource(station),
		Links: map[string]string{
			"self": "/stations/" + name,
		},
	}

	s.sendResponse(w, response)
}

// handleNearestStation resolves the catalog station closest to ?lat=&lon=
func (s *Server) handleNearestStation(w http.ResponseWriter, r *http.Request) {
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err1 != nil || err2 != nil || !geo.Valid(lat, lon) {
		s.sendErrorResponse(w, http.StatusBadRequest, "lat and lon must be valid coordinates")
		return
	}

	nearest, err := s.store.Nearest(geo.Coordinate{Latitude: lat, Longitude: lon})
	if err != nil {
		if errors.Is(err, store.ErrNoStations) {
			s.sendErrorResponse(w, http.StatusServiceUnavailable, "No stations loaded")
			return
		}
		s.sendErrorResponse(w, http.StatusInternalServerError, "Nearest-station lookup failed")
		return
	}

	if s.metrics != nil {
		s.metrics.NearestLookups.Inc()
	}

	response := Response{
		Data: stationToResource(nearest.Station),
		Meta: map[string]interface{}{
			"distance_km": nearest.DistanceKm,
		},
		Links: map[string]string{
			"self": "/stations/nearest",
		},
	}

	s.sendResponse(w, response)
}

// stationToResource converts a Station model to a JSON:API resource
func stationToResource(station *models.Station) Resource {
	lines := make([]map[string]interface{}, len(station.Lines))
	for i, line := range station.Lines {
		destinations := make([]string, len(line.Directions))
		for j, dir := range line.Directions {
			destinations[j] = dir.Destination
		}
		lines[i] = map[string]interface{}{
			"route_id":     line.RouteID,
			"display_name": line.DisplayName,
			"color":        line.Color,
			"destinations": destinations,
		}
	}

	return Resource{
		Type: "station",
		ID:   station.Name,
		Attributes: map[string]interface{}{
			"name":      station.Name,
			"latitude":  station.Coordinate.Latitude,
			"longitude": station.Coordinate.Longitude,
			"lines":     lines,
		},
		Links: map[string]string{
			"self": "/stations/" + station.Name,
		},
	}
}
