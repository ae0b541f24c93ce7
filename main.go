package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/metroboard/metroboard/internal/api"
	"github.com/metroboard/metroboard/internal/board"
	"github.com/metroboard/metroboard/internal/config"
	"github.com/metroboard/metroboard/internal/metrics"
	"github.com/metroboard/metroboard/internal/store"
	"github.com/metroboard/metroboard/internal/timetable"
)

var (
	listenAddr    = flag.String("listen", "", "HTTP listen address (overrides LISTEN_ADDR)")
	routesPath    = flag.String("routes", "", "path to routes.json (overrides ROUTES_PATH)")
	schedulesPath = flag.String("schedules", "", "path to timetable_schedules.jsonl (overrides SCHEDULES_PATH)")
	metricsAddr   = flag.String("metrics", "", "Prometheus listen address (overrides METRICS_ADDR)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *routesPath != "" {
		cfg.RoutesPath = *routesPath
	}
	if *schedulesPath != "" {
		cfg.SchedulesPath = *schedulesPath
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	collector := metrics.NewCollector()

	// Create catalog store and load the initial datasets
	catalog := store.NewStore()
	loader := timetable.NewLoader(cfg.RoutesPath, cfg.SchedulesPath, catalog, collector)
	if err := loader.Load(); err != nil {
		log.Fatalf("Failed to load timetable data: %v", err)
	}

	// Session hub over the catalog
	clock := board.SystemClock()
	hub := board.NewHub(catalog, clock, cfg.SessionTTL, collector)

	// Set up API server
	apiServer := api.NewServer(catalog, hub, clock, collector, cfg.TickInterval)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: apiServer.Router(),
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = collector.Serve(cfg.MetricsAddr)
	}

	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	// Periodically rebuild the catalog from the source files
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(cfg.ReloadInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := loader.Load(); err != nil {
					log.Printf("Failed to reload timetable data: %v", err)
				}
			case <-done:
				return
			}
		}
	}()

	// Prune idle sessions
	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(janitorCtx)
	}()

	// Start server
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Server listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for termination signal
	<-quit
	log.Println("Shutting down server...")

	// Signal all goroutines to stop
	close(done)
	janitorCancel()

	// Gracefully shut down server
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			log.Printf("Metrics server shutdown: %v", err)
		}
	}

	// Wait for all goroutines to complete
	wg.Wait()
	log.Println("Server exited properly")
}
