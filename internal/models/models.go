package models

import (
	"github.com/metroboard/metroboard/internal/geo"
)

// Operating classes as they appear in the source timetable scans. Only the
// weekday class feeds the merged schedule; everything else is ignored.
const (
	OperatingWeekday = "工作日"
	OperatingWeekend = "双休日"
)

// LineMeta is one entry of the line metadata table (routes.json "lines").
type LineMeta struct {
	Name  string `json:"lineName"`
	Color string `json:"lineColor,omitempty"`
}

// ScheduleRecord is one raw timetable record as emitted by the OCR pipeline,
// one JSON object per scanned image.
type ScheduleRecord struct {
	Station       string   `json:"station"`
	Route         string   `json:"route"`
	Destination   string   `json:"destination"`
	OperatingTime string   `json:"operating_time"`
	ScheduleTimes []string `json:"schedule_times"`
	Status        string   `json:"status"`
	Error         string   `json:"error,omitempty"`
}

// Direction is a line's timetable toward a single destination. An empty
// WeekdayTimes means no scheduled weekday service, which is a valid state.
type Direction struct {
	Destination  string   `json:"destination"`
	WeekdayTimes []string `json:"weekday_times"`
}

// Line groups the directions a route serves at one station.
type Line struct {
	RouteID     string       `json:"route_id"`
	DisplayName string       `json:"display_name"`
	Color       string       `json:"color"`
	Directions  []*Direction `json:"directions"`
}

// Station is identified by name; the coordinate falls back to the city
// center when the metadata has no entry for it.
type Station struct {
	Name       string         `json:"name"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Lines      []*Line        `json:"lines"`
}

// TrainSlot is one resolved scheduled departure relative to "now".
type TrainSlot struct {
	Time         string `json:"time"`
	MinutesOfDay int    `json:"minutes_of_day"`
	IsPast       bool   `json:"is_past"`
}

// FindLine returns the station's line with the given route ID, or nil.
func (s *Station) FindLine(routeID string) *Line {
	for _, line := range s.Lines {
		if line.RouteID == routeID {
			return line
		}
	}
	return nil
}

// FindDirection returns the line's direction with the given destination, or nil.
func (l *Line) FindDirection(destination string) *Direction {
	for _, dir := range l.Directions {
		if dir.Destination == destination {
			return dir
		}
	}
	return nil
}
