package board

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/metroboard/metroboard/internal/geo"
	"github.com/metroboard/metroboard/internal/metrics"
	"github.com/metroboard/metroboard/internal/store"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("board: session not found")

// Hub owns all live sessions. Sessions idle past the TTL are pruned by a
// background janitor.
type Hub struct {
	store   *store.Store
	clock   Clock
	ttl     time.Duration
	metrics *metrics.Collector

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub creates a session hub over the given catalog store.
func NewHub(st *store.Store, clock Clock, ttl time.Duration, m *metrics.Collector) *Hub {
	return &Hub{
		store:    st,
		clock:    clock,
		ttl:      ttl,
		metrics:  m,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session. With a coordinate the nearest station is
// auto-selected; without one (any failed geolocation outcome) the session
// starts unselected and the rider searches manually.
func (h *Hub) Create(point *geo.Coordinate) *Session {
	session := newSession(h.clock, h.metrics)

	if point != nil {
		nearest, err := h.store.Nearest(*point)
		if err != nil {
			log.Printf("Nearest-station lookup failed for session %s: %v", session.ID, err)
		} else {
			session.SelectStation(nearest.Station)
			session.mu.Lock()
			session.distanceKm = nearest.DistanceKm
			session.mu.Unlock()
			if h.metrics != nil {
				h.metrics.NearestLookups.Inc()
			}
		}
	}

	h.mu.Lock()
	h.sessions[session.ID] = session
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SessionsCreated.Inc()
		h.metrics.ActiveSessions.Set(float64(h.Len()))
	}
	return session
}

// Get returns the session with the given ID.
func (h *Hub) Get(id string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	session, ok := h.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session, reporting whether it existed.
func (h *Hub) Delete(id string) bool {
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if ok && h.metrics != nil {
		h.metrics.ActiveSessions.Set(float64(h.Len()))
	}
	return ok
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Run prunes idle sessions until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.prune()
		}
	}
}

func (h *Hub) prune() {
	cutoff := h.clock.Now().Add(-h.ttl)
	var expired []string

	h.mu.Lock()
	for id, session := range h.sessions {
		session.mu.Lock()
		idle := session.lastAccess.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(h.sessions, id)
			expired = append(expired, id)
		}
	}
	remaining := len(h.sessions)
	h.mu.Unlock()

	if len(expired) > 0 {
		log.Printf("Expired %d idle sessions, %d remaining", len(expired), remaining)
		if h.metrics != nil {
			h.metrics.SessionsExpired.Add(float64(len(expired)))
			h.metrics.ActiveSessions.Set(float64(remaining))
		}
	}
}
