package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/metroboard/metroboard/internal/geo"
	"github.com/metroboard/metroboard/internal/models"
)

// ErrNoStations is returned when a lookup runs against an empty catalog.
var ErrNoStations = errors.New("store: no stations loaded")

// LineInfo is the catalog-wide view of a line, aggregated across stations.
type LineInfo struct {
	RouteID     string   `json:"route_id"`
	DisplayName string   `json:"display_name"`
	Color       string   `json:"color"`
	Stations    []string `json:"stations"`
}

// NearestResult is a station with its computed distance from a query point.
type NearestResult struct {
	Station    *models.Station
	DistanceKm float64
}

// Store provides thread-safe access to the merged station catalog. The
// catalog is immutable once set; reloads replace it wholesale.
type Store struct {
	mu sync.RWMutex

	stations []*models.Station
	byName   map[string]*models.Station

	lineOrder []string
	lines     map[string]*LineInfo

	lastLoad time.Time
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{
		byName: make(map[string]*models.Station),
		lines:  make(map[string]*LineInfo),
	}
}

// ReplaceCatalog atomically swaps in a freshly merged catalog. Indexes are
// built outside the lock.
func (s *Store) ReplaceCatalog(stations []*models.Station) {
	byName := make(map[string]*models.Station, len(stations))
	var lineOrder []string
	lines := make(map[string]*LineInfo)

	for _, station := range stations {
		byName[station.Name] = station
		for _, line := range station.Lines {
			info, ok := lines[line.RouteID]
			if !ok {
				info = &LineInfo{
					RouteID:     line.RouteID,
					DisplayName: line.DisplayName,
					Color:       line.Color,
				}
				lines[line.RouteID] = info
				lineOrder = append(lineOrder, line.RouteID)
			}
			info.Stations = append(info.Stations, station.Name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stations = stations
	s.byName = byName
	s.lineOrder = lineOrder
	s.lines = lines
	s.lastLoad = time.Now()
}

// AllStations returns the catalog in load order.
func (s *Store) AllStations() []*models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stations := make([]*models.Station, len(s.stations))
	copy(stations, s.stations)
	return stations
}

// GetStation returns the station with the given name, or nil.
func (s *Store) GetStation(name string) *models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byName[name]
}

// SearchByName returns stations whose name contains the query as a
// substring, in catalog order. Matching is case-sensitive and unranked.
func (s *Store) SearchByName(query string) []*models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*models.Station
	for _, station := range s.stations {
		if strings.Contains(station.Name, query) {
			matches = append(matches, station)
		}
	}
	return matches
}

// Nearest returns the catalog station closest to the given point. Ties keep
// the first station in catalog order.
func (s *Store) Nearest(point geo.Coordinate) (*NearestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.stations) == 0 {
		return nil, ErrNoStations
	}

	best := &NearestResult{
		Station:    s.stations[0],
		DistanceKm: geo.DistanceKm(point, s.stations[0].Coordinate),
	}
	for _, station := range s.stations[1:] {
		d := geo.DistanceKm(point, station.Coordinate)
		if d < best.DistanceKm {
			best = &NearestResult{Station: station, DistanceKm: d}
		}
	}
	return best, nil
}

// AllLines returns the aggregated line list in first-seen order.
func (s *Store) AllLines() []*LineInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]*LineInfo, 0, len(s.lineOrder))
	for _, id := range s.lineOrder {
		lines = append(lines, s.lines[id])
	}
	return lines
}

// GetLine returns the aggregated view of one line, or nil.
func (s *Store) GetLine(routeID string) *LineInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines[routeID]
}

// StationsByRoute returns the stations a line serves, in catalog order.
func (s *Store) StationsByRoute(routeID string) []*models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := s.lines[routeID]
	if info == nil {
		return nil
	}
	stations := make([]*models.Station, 0, len(info.Stations))
	for _, name := range info.Stations {
		if station, ok := s.byName[name]; ok {
			stations = append(stations, station)
		}
	}
	return stations
}

// LastLoad returns when the catalog was last replaced.
func (s *Store) LastLoad() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLoad
}
