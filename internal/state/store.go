// Package state provides the thread-safe snapshot store shared by the
// editor callbacks and the UI refresh loop.
package state

import (
	"sync"
	"time"

	"github.com/paulmach/orb"

	"fieldbound/internal/draw"
)

// Snapshot is the latest editor data available to the UI.
type Snapshot struct {
	Boundary         orb.Ring
	AreaSquareMeters float64
	HasBoundary      bool
	Session          draw.State
	StyleID          string
	Generation       uint64
	LastUpdated      time.Time
}

// Store coordinates concurrent updates to the snapshot. The zero value
// is ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetBoundary records the boundary reported by the drawing session. A
// nil ring means the boundary was deleted.
func (s *Store) SetBoundary(ring orb.Ring, areaSquareMeters float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Boundary = cloneRing(ring)
	s.snapshot.AreaSquareMeters = areaSquareMeters
	s.snapshot.HasBoundary = ring != nil
	s.snapshot.LastUpdated = time.Now()
}

// SetSession records the drawing session phase.
func (s *Store) SetSession(st draw.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Session = st
	s.snapshot.LastUpdated = time.Now()
}

// SetStyle records the active style and its generation.
func (s *Store) SetStyle(id string, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.StyleID = id
	s.snapshot.Generation = generation
	s.snapshot.LastUpdated = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshot
	snap.Boundary = cloneRing(s.snapshot.Boundary)
	return snap
}

func cloneRing(ring orb.Ring) orb.Ring {
	if len(ring) == 0 {
		return nil
	}
	dup := make(orb.Ring, len(ring))
	copy(dup, ring)
	return dup
}
