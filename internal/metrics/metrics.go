package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus instruments on a private registry.
type Collector struct {
	reg *prometheus.Registry

	CatalogStations   prometheus.Gauge
	CatalogLines      prometheus.Gauge
	CatalogDirections prometheus.Gauge

	RecordsLoaded         prometheus.Counter
	RecordsSkipped        prometheus.Counter
	DuplicateWeekday      prometheus.Counter
	CorrectedDestinations prometheus.Counter
	LoadDuration          prometheus.Histogram

	Requests        *prometheus.CounterVec // endpoint label
	NearestLookups  prometheus.Counter
	ActiveSessions  prometheus.Gauge
	SessionsCreated prometheus.Counter
	SessionsExpired prometheus.Counter

	SnapshotDuration prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		CatalogStations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metroboard_catalog_stations",
			Help: "Number of stations in the merged catalog.",
		}),
		CatalogLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metroboard_catalog_lines",
			Help: "Number of station-line entries in the merged catalog.",
		}),
		CatalogDirections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metroboard_catalog_directions",
			Help: "Number of directions in the merged catalog.",
		}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metroboard_schedule_records_loaded_total",
			Help: "Total schedule records read from the source file.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metroboard_schedule_records_skipped_total",
			Help: "Total records skipped because the OCR pipeline marked them failed.",
		}),
		DuplicateWeekday: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metroboard_duplicate_weekday_records_total",
			Help: "Weekday records overwritten by a later record for the same direction.",
		}),
		CorrectedDestinations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metroboard_corrected_destinations_total",
			Help: "Destination names snapped to a known station on the route.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "metroboard_load_duration_seconds",
			Help:    "Duration of a full dataset load and merge.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metroboard_requests_total",
			Help: "API requests served.",
		}, []string{"endpoint"}),
		NearestLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metroboard_nearest_lookups_total",
			Help: "Nearest-station resolutions performed.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metroboard_active_sessions",
			Help: "Sessions currently held by the hub.",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metroboard_sessions_created_total",
			Help: "Total sessions created.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metroboard_sessions_expired_total",
			Help: "Total sessions removed by the idle janitor.",
		}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "metroboard_snapshot_duration_seconds",
			Help:    "Duration of board snapshot computations.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 15),
		}),
	}

	reg.MustRegister(
		c.CatalogStations, c.CatalogLines, c.CatalogDirections,
		c.RecordsLoaded, c.RecordsSkipped, c.DuplicateWeekday, c.CorrectedDestinations,
		c.LoadDuration,
		c.Requests, c.NearestLookups,
		c.ActiveSessions, c.SessionsCreated, c.SessionsExpired,
		c.SnapshotDuration,
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
