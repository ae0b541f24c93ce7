package timetable

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/metroboard/metroboard/internal/geo"
	"github.com/metroboard/metroboard/internal/models"
)

var (
	// ErrDataLoad indicates one of the source datasets could not be read.
	ErrDataLoad = errors.New("timetable: data load failed")

	// ErrDataFormat indicates a record violates the required shape. The merge
	// fails as a whole; a partial catalog is never returned.
	ErrDataFormat = errors.New("timetable: bad record format")
)

// DefaultLineColor is used for routes with no metadata entry.
const DefaultLineColor = "#888888"

// DefaultCoordinate is the city-center fallback for stations missing from
// the coordinate table.
var DefaultCoordinate = geo.Coordinate{Latitude: 39.9042, Longitude: 116.4074}

// MergeStats summarizes what a merge consumed and produced.
type MergeStats struct {
	Stations              int
	Lines                 int
	Directions            int
	SkippedRecords        int
	IgnoredClassRecords   int
	DuplicateWeekday      int
	CorrectedDestinations int
}

// Merge builds the station catalog from the line metadata table, the raw
// schedule records and the station coordinate table. Station, line and
// direction order is first-seen across the records. Only weekday records
// contribute departure times; when several weekday records describe the same
// (station, route, destination), the last one wins.
func Merge(metas []models.LineMeta, records []models.ScheduleRecord, coords map[string]geo.Coordinate) ([]*models.Station, *MergeStats, error) {
	stats := &MergeStats{}

	metaByName := make(map[string]models.LineMeta, len(metas))
	for _, m := range metas {
		metaByName[m.Name] = m
	}

	routeStations := knownRouteStations(records)

	// First pass: validate and bucket records, keeping first-seen order of
	// stations, routes and destinations.
	var stationOrder []string
	type directionKey struct{ route, destination string }
	routeOrder := make(map[string][]string)
	destOrder := make(map[string]map[string][]string)
	weekdayTimes := make(map[string]map[directionKey][]string)

	for i, rec := range records {
		if rec.Status != "" && rec.Status != "success" {
			// Failed OCR parses carry null fields on purpose; skip them.
			stats.SkippedRecords++
			continue
		}

		if rec.Station == "" || rec.Route == "" || rec.Destination == "" {
			return nil, nil, fmt.Errorf("%w: record %d missing station/route/destination", ErrDataFormat, i)
		}
		for _, tm := range rec.ScheduleTimes {
			if _, err := ParseMinutes(tm); err != nil {
				return nil, nil, fmt.Errorf("%w: record %d (%s/%s): %v", ErrDataFormat, i, rec.Station, rec.Route, err)
			}
		}

		destination := CorrectDestination(rec.Destination, rec.Route, routeStations)
		if destination != rec.Destination {
			stats.CorrectedDestinations++
		}

		if _, ok := routeOrder[rec.Station]; !ok {
			stationOrder = append(stationOrder, rec.Station)
			routeOrder[rec.Station] = nil
			destOrder[rec.Station] = make(map[string][]string)
			weekdayTimes[rec.Station] = make(map[directionKey][]string)
		}
		if _, ok := destOrder[rec.Station][rec.Route]; !ok {
			routeOrder[rec.Station] = append(routeOrder[rec.Station], rec.Route)
			destOrder[rec.Station][rec.Route] = nil
		}

		key := directionKey{route: rec.Route, destination: destination}
		seen := false
		for _, d := range destOrder[rec.Station][rec.Route] {
			if d == destination {
				seen = true
				break
			}
		}
		if !seen {
			destOrder[rec.Station][rec.Route] = append(destOrder[rec.Station][rec.Route], destination)
		}

		if rec.OperatingTime != models.OperatingWeekday {
			stats.IgnoredClassRecords++
			continue
		}

		if _, dup := weekdayTimes[rec.Station][key]; dup {
			stats.DuplicateWeekday++
			log.Printf("Duplicate weekday timetable for %s %s -> %s, keeping the later record", rec.Station, rec.Route, destination)
		}
		weekdayTimes[rec.Station][key] = sortedTimes(rec.ScheduleTimes)
	}

	// Second pass: assemble the hierarchy.
	stations := make([]*models.Station, 0, len(stationOrder))
	for _, name := range stationOrder {
		station := &models.Station{
			Name:       name,
			Coordinate: DefaultCoordinate,
		}
		if c, ok := coords[name]; ok {
			station.Coordinate = c
		}

		for _, routeID := range routeOrder[name] {
			line := &models.Line{
				RouteID:     routeID,
				DisplayName: DisplayName(routeID),
				Color:       DefaultLineColor,
			}
			if meta, ok := metaByName[routeID]; ok && meta.Color != "" {
				line.Color = meta.Color
			}

			for _, destination := range destOrder[name][routeID] {
				line.Directions = append(line.Directions, &models.Direction{
					Destination:  destination,
					WeekdayTimes: weekdayTimes[name][directionKey{route: routeID, destination: destination}],
				})
				stats.Directions++
			}

			station.Lines = append(station.Lines, line)
			stats.Lines++
		}

		stations = append(stations, station)
		stats.Stations++
	}

	return stations, stats, nil
}

// DisplayName derives a line's display name from its route ID: numeric IDs
// become "N号线", named lines get a 线 suffix.
func DisplayName(routeID string) string {
	if _, err := strconv.Atoi(routeID); err == nil {
		return routeID + "号线"
	}
	if strings.HasSuffix(routeID, "线") {
		return routeID
	}
	return routeID + "线"
}

// ParseMinutes converts an "HH:MM" string to minutes since midnight.
func ParseMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return h*60 + m, nil
}

// sortedTimes returns a copy of times in ascending order. The OCR output is
// usually sorted already but is not trusted to be.
func sortedTimes(times []string) []string {
	out := make([]string, len(times))
	copy(out, times)
	sort.Slice(out, func(i, j int) bool {
		a, _ := ParseMinutes(out[i])
		b, _ := ParseMinutes(out[j])
		return a < b
	})
	return out
}

// knownRouteStations maps each route to the station names seen for it in the
// records, seeded with termini that have no timetable scan of their own.
func knownRouteStations(records []models.ScheduleRecord) map[string][]string {
	routeStations := map[string][]string{
		"首都机场": {"首都机场"},
		"1":    {"环球度假区"},
		"八通":   {"古城"},
	}

	for _, rec := range records {
		if rec.Route == "" || rec.Station == "" {
			continue
		}
		found := false
		for _, s := range routeStations[rec.Route] {
			if s == rec.Station {
				found = true
				break
			}
		}
		if !found {
			routeStations[rec.Route] = append(routeStations[rec.Route], rec.Station)
		}
	}

	return routeStations
}
