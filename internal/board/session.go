package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/metroboard/metroboard/internal/metrics"
	"github.com/metroboard/metroboard/internal/models"
)

var (
	ErrNoSelection      = errors.New("board: no station selected")
	ErrUnknownLine      = errors.New("board: line not served at selected station")
	ErrUnknownDirection = errors.New("board: no such direction on selected line")
)

// Selection is the session's chosen station, line, direction and train
// index. It is replaced wholesale on every change; a concurrent snapshot
// never observes a half-updated value.
type Selection struct {
	Station    *models.Station
	Line       *models.Line
	Direction  *models.Direction
	TrainIndex int
}

// Session is one rider's board: a selection plus the clock it is resolved
// against. All access goes through the session mutex.
type Session struct {
	ID string

	mu         sync.Mutex
	clock      Clock
	metrics    *metrics.Collector
	sel        Selection
	distanceKm float64
	lastAccess time.Time
}

// Snapshot is the full display payload produced for one tick.
type Snapshot struct {
	SessionID   string             `json:"session_id,omitempty"`
	Station     string             `json:"station,omitempty"`
	DistanceKm  float64            `json:"distance_km,omitempty"`
	RouteID     string             `json:"route_id,omitempty"`
	LineName    string             `json:"line_name,omitempty"`
	LineColor   string             `json:"line_color,omitempty"`
	Destination string             `json:"destination,omitempty"`
	Trains      []models.TrainSlot `json:"trains"`
	TrainIndex  int                `json:"train_index"`
	Current     *models.TrainSlot  `json:"current,omitempty"`
	Countdown   Countdown          `json:"countdown"`
	Wrapped     bool               `json:"wrapped,omitempty"`
}

func newSession(clock Clock, m *metrics.Collector) *Session {
	return &Session{
		ID:         uuid.NewString(),
		clock:      clock,
		metrics:    m,
		sel:        Selection{TrainIndex: NoTrain},
		distanceKm: -1,
		lastAccess: clock.Now(),
	}
}

// SelectStation replaces the whole selection: the station's first line,
// that line's first direction, and the next upcoming train.
func (s *Session) SelectStation(station *models.Station) {
	sel := Selection{Station: station, TrainIndex: NoTrain}
	if station != nil && len(station.Lines) > 0 {
		sel.Line = station.Lines[0]
		if len(sel.Line.Directions) > 0 {
			sel.Direction = sel.Line.Directions[0]
		}
	}
	s.resetIndex(&sel)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = sel
	s.distanceKm = -1
	s.lastAccess = s.clock.Now()
}

// SelectLine switches to another line at the selected station, resetting
// the direction to that line's first direction and the train index.
func (s *Session) SelectLine(routeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sel.Station == nil {
		return ErrNoSelection
	}
	line := s.sel.Station.FindLine(routeID)
	if line == nil {
		return ErrUnknownLine
	}

	sel := Selection{Station: s.sel.Station, Line: line, TrainIndex: NoTrain}
	if len(line.Directions) > 0 {
		sel.Direction = line.Directions[0]
	}
	s.resetIndex(&sel)

	s.sel = sel
	s.lastAccess = s.clock.Now()
	return nil
}

// SelectDirection switches the direction on the selected line, resetting
// the train index.
func (s *Session) SelectDirection(destination string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sel.Line == nil {
		return ErrNoSelection
	}
	dir := s.sel.Line.FindDirection(destination)
	if dir == nil {
		return ErrUnknownDirection
	}

	sel := Selection{Station: s.sel.Station, Line: s.sel.Line, Direction: dir, TrainIndex: NoTrain}
	s.resetIndex(&sel)

	s.sel = sel
	s.lastAccess = s.clock.Now()
	return nil
}

// NextTrain advances the train index cyclically forward.
func (s *Session) NextTrain() { s.advance(1) }

// PrevTrain advances the train index cyclically backward.
func (s *Session) PrevTrain() { s.advance(-1) }

func (s *Session) advance(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now, _ := MinutesOfDay(s.clock.Now())
	slots := ResolveAll(s.sel.Direction, now)

	sel := s.sel
	sel.TrainIndex = Advance(slots, s.sel.TrainIndex, delta)
	s.sel = sel
	s.lastAccess = s.clock.Now()
}

// resetIndex points the selection at the next upcoming train.
func (s *Session) resetIndex(sel *Selection) {
	now, _ := MinutesOfDay(s.clock.Now())
	sel.TrainIndex = NextIndex(ResolveAll(sel.Direction, now), now)
}

// Snapshot resolves the selection against the current wall clock. It never
// fails: a missing or stale selection degrades to a NO_SERVICE payload.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.clock.Now()
	s.lastAccess = start

	snap := Resolve(s.sel, s.clock)
	snap.SessionID = s.ID
	if s.distanceKm >= 0 {
		snap.DistanceKm = s.distanceKm
	}

	if s.metrics != nil {
		s.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	}
	return snap
}

// Resolve is the pure resolution step shared by sessions and the stateless
// board endpoint.
func Resolve(sel Selection, clock Clock) Snapshot {
	nowMin, nowSec := MinutesOfDay(clock.Now())

	snap := Snapshot{
		TrainIndex: NoTrain,
		Countdown:  Countdown{State: StateNoService},
	}
	if sel.Station != nil {
		snap.Station = sel.Station.Name
	}
	if sel.Line != nil {
		snap.RouteID = sel.Line.RouteID
		snap.LineName = sel.Line.DisplayName
		snap.LineColor = sel.Line.Color
	}
	if sel.Direction == nil {
		return snap
	}
	snap.Destination = sel.Direction.Destination

	slots := ResolveAll(sel.Direction, nowMin)
	snap.Trains = slots
	if len(slots) == 0 {
		return snap
	}

	index := sel.TrainIndex
	if index < 0 || index >= len(slots) {
		index = NextIndex(slots, nowMin)
	}
	snap.TrainIndex = index
	snap.Current = &slots[index]
	snap.Countdown = FormatCountdown(snap.Current, nowMin, nowSec)
	snap.Wrapped = Wrapped(slots)

	return snap
}

// Watch emits a snapshot immediately and then one per interval until the
// context is cancelled. Ticks are independent; a slow consumer simply
// misses ticks rather than queueing them.
func (s *Session) Watch(ctx context.Context, interval time.Duration) <-chan Snapshot {
	ch := make(chan Snapshot)
	go func() {
		defer close(ch)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		send := func() bool {
			select {
			case ch <- s.Snapshot():
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !send() {
					return
				}
			}
		}
	}()
	return ch
}
