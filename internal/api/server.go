package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/metroboard/metroboard/internal/board"
	"github.com/metroboard/metroboard/internal/metrics"
	"github.com/metroboard/metroboard/internal/store"
)

// Server represents the API server
type Server struct {
	store        *store.Store
	hub          *board.Hub
	clock        board.Clock
	metrics      *metrics.Collector
	tickInterval time.Duration
}

// NewServer creates a new API server
func NewServer(st *store.Store, hub *board.Hub, clock board.Clock, m *metrics.Collector, tickInterval time.Duration) *Server {
	return &Server{
		store:        st,
		hub:          hub,
		clock:        clock,
		metrics:      m,
		tickInterval: tickInterval,
	}
}

// Router creates and returns the HTTP router
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.countRequests)

	// Register routes
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/stations", s.handleStations).Methods("GET")
	r.HandleFunc("/stations/nearest", s.handleNearestStation).Methods("GET")
	r.HandleFunc("/stations/{name}", s.handleStation).Methods("GET")
	r.HandleFunc("/lines", s.handleLines).Methods("GET")
	r.HandleFunc("/lines/{id}", s.handleLine).Methods("GET")
	r.HandleFunc("/board", s.handleBoard).Methods("GET")
	r.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	r.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	r.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	r.HandleFunc("/sessions/{id}/select", s.handleSessionSelect).Methods("POST")
	r.HandleFunc("/sessions/{id}/trains/next", s.handleNextTrain).Methods("POST")
	r.HandleFunc("/sessions/{id}/trains/prev", s.handlePrevTrain).Methods("POST")
	r.HandleFunc("/sessions/{id}/watch", s.handleSessionWatch).Methods("GET")

	// Add CORS middleware
	return s.corsMiddleware(r)
}

// countRequests records per-endpoint request counts after routing.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics != nil {
			endpoint := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					endpoint = tmpl
				}
			}
			s.metrics.Requests.WithLabelValues(endpoint).Inc()
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers to all responses
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
