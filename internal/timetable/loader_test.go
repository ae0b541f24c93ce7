package timetable

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/metroboard/metroboard/internal/metrics"
	"github.com/metroboard/metroboard/internal/store"
)

const testRoutesJSON = `{
  "lines": [
    {"lineName": "1", "lineColor": "#A4343A"},
    {"lineName": "2", "lineColor": "#0050A0"}
  ],
  "coordinates": {
    "国贸": [39.9085, 116.4576],
    "四惠": [39.9084, 116.4962]
  }
}`

const testSchedulesJSONL = `{"route": "1", "station": "国贸", "destination": "四惠", "operating_time": "工作日", "schedule_times": ["05:30", "05:40", "05:50"], "status": "success"}

{"route": "1", "station": "国贸", "destination": "四惠", "operating_time": "双休日", "schedule_times": ["06:00"], "status": "success"}
{"route": "1", "station": "四惠", "destination": "国贸", "operating_time": "工作日", "schedule_times": ["05:25"], "status": "success"}
{"route": "1", "station": null, "destination": null, "operating_time": null, "schedule_times": [], "status": "error", "error": "no text recognized"}
`

func writeTestData(t *testing.T, routes, schedules string) (string, string) {
	t.Helper()
	dir := t.TempDir()

	routesPath := filepath.Join(dir, "routes.json")
	if err := os.WriteFile(routesPath, []byte(routes), 0o644); err != nil {
		t.Fatal(err)
	}
	schedulesPath := filepath.Join(dir, "schedules.jsonl")
	if err := os.WriteFile(schedulesPath, []byte(schedules), 0o644); err != nil {
		t.Fatal(err)
	}
	return routesPath, schedulesPath
}

func TestLoaderLoad(t *testing.T) {
	routesPath, schedulesPath := writeTestData(t, testRoutesJSON, testSchedulesJSONL)

	catalog := store.NewStore()
	loader := NewLoader(routesPath, schedulesPath, catalog, metrics.NewCollector())
	if err := loader.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	stations := catalog.AllStations()
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}

	guomao := catalog.GetStation("国贸")
	if guomao == nil {
		t.Fatal("国贸 missing from catalog")
	}
	if guomao.Coordinate.Latitude != 39.9085 {
		t.Errorf("国贸 latitude: got %f", guomao.Coordinate.Latitude)
	}

	line := guomao.FindLine("1")
	if line == nil {
		t.Fatal("line 1 missing at 国贸")
	}
	if line.Color != "#A4343A" {
		t.Errorf("line 1 color: got %s", line.Color)
	}
	dir := line.FindDirection("四惠")
	if dir == nil {
		t.Fatal("direction 四惠 missing")
	}
	// The weekend record contributes nothing
	if len(dir.WeekdayTimes) != 3 || dir.WeekdayTimes[0] != "05:30" {
		t.Errorf("unexpected weekday times: %v", dir.WeekdayTimes)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	routesPath, schedulesPath := writeTestData(t, testRoutesJSON, testSchedulesJSONL)

	catalog := store.NewStore()
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.json"), schedulesPath, catalog, metrics.NewCollector())
	if err := loader.Load(); !errors.Is(err, ErrDataLoad) {
		t.Errorf("expected ErrDataLoad, got %v", err)
	}

	loader = NewLoader(routesPath, filepath.Join(t.TempDir(), "nope.jsonl"), catalog, metrics.NewCollector())
	if err := loader.Load(); !errors.Is(err, ErrDataLoad) {
		t.Errorf("expected ErrDataLoad, got %v", err)
	}
}

func TestLoaderInvalidJSONLine(t *testing.T) {
	routesPath, schedulesPath := writeTestData(t, testRoutesJSON, "{not json}\n")

	loader := NewLoader(routesPath, schedulesPath, store.NewStore(), metrics.NewCollector())
	if err := loader.Load(); !errors.Is(err, ErrDataLoad) {
		t.Errorf("expected ErrDataLoad, got %v", err)
	}
}

func TestLoaderMalformedRecordFailsWholeLoad(t *testing.T) {
	bad := `{"route": "1", "station": "国贸", "destination": "", "operating_time": "工作日", "schedule_times": ["05:30"], "status": "success"}` + "\n"
	routesPath, schedulesPath := writeTestData(t, testRoutesJSON, bad)

	catalog := store.NewStore()
	loader := NewLoader(routesPath, schedulesPath, catalog, metrics.NewCollector())
	if err := loader.Load(); !errors.Is(err, ErrDataFormat) {
		t.Errorf("expected ErrDataFormat, got %v", err)
	}

	// The previous (empty) catalog must be untouched
	if len(catalog.AllStations()) != 0 {
		t.Errorf("partial catalog exposed after failed load")
	}
}

func TestLoaderBadCoordinateShape(t *testing.T) {
	badRoutes := `{"lines": [], "coordinates": {"国贸": [39.9]}}`
	routesPath, schedulesPath := writeTestData(t, badRoutes, testSchedulesJSONL)

	loader := NewLoader(routesPath, schedulesPath, store.NewStore(), metrics.NewCollector())
	if err := loader.Load(); !errors.Is(err, ErrDataFormat) {
		t.Errorf("expected ErrDataFormat, got %v", err)
	}
}
