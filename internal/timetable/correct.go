package timetable

import (
	"github.com/agnivade/levenshtein"
)

// CorrectDestination snaps an OCR'd destination name to the closest station
// name known on the same route. Exact matches pass through; when nothing on
// the route resembles the destination at all, the original name is kept.
func CorrectDestination(destination, route string, routeStations map[string][]string) string {
	if destination == "" || route == "" {
		return destination
	}
	stations, ok := routeStations[route]
	if !ok || len(stations) == 0 {
		return destination
	}

	for _, station := range stations {
		if station == destination {
			return destination
		}
	}

	best := destination
	bestScore := 0
	for _, station := range stations {
		score := similarity(destination, station)
		if score > bestScore {
			bestScore = score
			best = station
		}
	}

	return best
}

// similarity scores two strings 0-100 from their Levenshtein distance.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	if d >= longest {
		return 0
	}
	return (longest - d) * 100 / longest
}
