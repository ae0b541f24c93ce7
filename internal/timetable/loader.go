package timetable

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/metroboard/metroboard/internal/geo"
	"github.com/metroboard/metroboard/internal/metrics"
	"github.com/metroboard/metroboard/internal/models"
	"github.com/metroboard/metroboard/internal/store"
)

// RoutesFile mirrors routes.json: the line metadata table plus station
// coordinates keyed by station name as [lat, lon] pairs.
type RoutesFile struct {
	Lines       []models.LineMeta    `json:"lines"`
	Coordinates map[string][]float64 `json:"coordinates"`
}

// Loader reads the two source datasets and rebuilds the station catalog.
type Loader struct {
	routesPath    string
	schedulesPath string
	store         *store.Store
	metrics       *metrics.Collector
}

// NewLoader creates a loader for the given dataset paths.
func NewLoader(routesPath, schedulesPath string, st *store.Store, m *metrics.Collector) *Loader {
	return &Loader{
		routesPath:    routesPath,
		schedulesPath: schedulesPath,
		store:         st,
		metrics:       m,
	}
}

// Load reads both datasets, merges them and swaps the result into the store
// wholesale. On any error the store keeps its previous catalog.
func (l *Loader) Load() error {
	start := time.Now()
	log.Printf("Starting timetable load from %s and %s", l.routesPath, l.schedulesPath)

	routes, err := LoadRoutes(l.routesPath)
	if err != nil {
		return err
	}

	records, err := LoadScheduleRecords(l.schedulesPath)
	if err != nil {
		return err
	}

	coords := make(map[string]geo.Coordinate, len(routes.Coordinates))
	for name, pair := range routes.Coordinates {
		if len(pair) != 2 {
			return fmt.Errorf("%w: coordinate for %q has %d components", ErrDataFormat, name, len(pair))
		}
		coords[name] = geo.Coordinate{Latitude: pair[0], Longitude: pair[1]}
	}

	stations, stats, err := Merge(routes.Lines, records, coords)
	if err != nil {
		return err
	}

	l.store.ReplaceCatalog(stations)

	if l.metrics != nil {
		l.metrics.CatalogStations.Set(float64(stats.Stations))
		l.metrics.CatalogLines.Set(float64(stats.Lines))
		l.metrics.CatalogDirections.Set(float64(stats.Directions))
		l.metrics.RecordsLoaded.Add(float64(len(records)))
		l.metrics.RecordsSkipped.Add(float64(stats.SkippedRecords))
		l.metrics.DuplicateWeekday.Add(float64(stats.DuplicateWeekday))
		l.metrics.CorrectedDestinations.Add(float64(stats.CorrectedDestinations))
		l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	}

	log.Printf("Timetable load completed: %d stations, %d lines, %d directions (%d records, %d skipped, %d corrected)",
		stats.Stations, stats.Lines, stats.Directions, len(records), stats.SkippedRecords, stats.CorrectedDestinations)
	return nil
}

// LoadRoutes reads and decodes the routes.json metadata file.
func LoadRoutes(path string) (*RoutesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDataLoad, path, err)
	}

	var routes RoutesFile
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrDataLoad, path, err)
	}

	return &routes, nil
}

// LoadScheduleRecords reads the newline-delimited schedule records file.
// Blank lines are allowed; a line that is not valid JSON fails the load.
func LoadScheduleRecords(path string) ([]models.ScheduleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrDataLoad, path, err)
	}
	defer f.Close()

	var records []models.ScheduleRecord

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec models.ScheduleRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrDataLoad, path, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDataLoad, path, err)
	}

	return records, nil
}
