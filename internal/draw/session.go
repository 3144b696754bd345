package draw

import (
	"fmt"
	"log"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"fieldbound/internal/geo"
)

// State is the drawing session phase.
type State int

const (
	Empty State = iota
	Drawing
	Placed
	Editing
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Drawing:
		return "drawing"
	case Placed:
		return "placed"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ChangeFunc receives the boundary after every mutation. A nil ring
// means the boundary was deleted; the area is then 0.
type ChangeFunc func(ring orb.Ring, areaSquareMeters float64)

// Options configure a Session.
type Options struct {
	// Initial seeds the session with an existing boundary. The session
	// starts in Placed and does not fire OnChange for the seed.
	Initial orb.Ring
	// Disabled suppresses every mutating entry point, for read-only
	// display of an existing boundary.
	Disabled bool
	OnChange ChangeFunc
	Logf     func(format string, args ...any)
}

// Session drives the drawing toolkit through the draw/edit/delete
// workflow. At most one boundary exists at a time; the session has no
// terminal state and is reusable across repeated cycles.
type Session struct {
	mu       sync.Mutex
	tool     Tool
	onChange ChangeFunc
	logf     func(string, ...any)
	disabled bool
	disposed bool

	state     State
	ring      orb.Ring
	area      float64
	featureID string

	offs []func()
}

// NewSession wires a session to the toolkit and registers its event
// handlers. Call Dispose to release them.
func NewSession(tool Tool, opts Options) *Session {
	s := &Session{
		tool:     tool,
		onChange: opts.OnChange,
		logf:     opts.Logf,
		disabled: opts.Disabled,
		state:    Empty,
	}
	if s.logf == nil {
		s.logf = log.Printf
	}

	if len(opts.Initial) > 0 {
		ring := cloneRing(opts.Initial)
		f := geojson.NewFeature(orb.Polygon{cloneRing(ring)})
		tool.Add(f)
		s.featureID = featureIDOf(f)
		s.ring = ring
		s.area = s.safeArea(ring)
		s.state = Placed
	}

	s.offs = append(s.offs,
		tool.On(EventCreate, s.handleCreate),
		tool.On(EventUpdate, s.handleUpdate),
		tool.On(EventDelete, s.handleDelete),
		tool.On(EventModeChange, s.handleModeChange),
	)
	return s
}

// State returns the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Boundary returns a copy of the current ring and its area. The ring is
// nil when no boundary exists.
func (s *Session) Boundary() (orb.Ring, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRing(s.ring), s.area
}

// StartDraw clears any existing boundary and enters vertex collection.
func (s *Session) StartDraw() {
	s.mu.Lock()
	if s.disabled || s.disposed {
		s.mu.Unlock()
		return
	}
	s.ring = nil
	s.area = 0
	s.featureID = ""
	s.state = Drawing
	tool := s.tool
	s.mu.Unlock()

	tool.DeleteAll()
	tool.ChangeMode(ModeDrawPolygon, "")
}

// CancelDraw discards in-progress geometry without notifying the host.
func (s *Session) CancelDraw() {
	s.mu.Lock()
	if s.disposed || s.state != Drawing {
		s.mu.Unlock()
		return
	}
	s.state = Empty
	tool := s.tool
	s.mu.Unlock()

	tool.DeleteAll()
	tool.ChangeMode(ModeSimpleSelect, "")
}

// StartEdit switches the placed boundary into vertex-drag interaction.
// A no-op when nothing is placed.
func (s *Session) StartEdit() {
	s.mu.Lock()
	if s.disabled || s.disposed || s.state != Placed {
		s.mu.Unlock()
		return
	}
	s.state = Editing
	tool := s.tool
	id := s.featureID
	s.mu.Unlock()

	tool.ChangeMode(ModeDirectSelect, id)
}

// Delete removes the boundary and notifies the host once. A no-op when
// no boundary exists.
func (s *Session) Delete() {
	s.mu.Lock()
	if s.disabled || s.disposed || (s.state != Placed && s.state != Editing) {
		s.mu.Unlock()
		return
	}
	s.ring = nil
	s.area = 0
	s.featureID = ""
	s.state = Empty
	tool := s.tool
	cb := s.onChange
	s.mu.Unlock()

	tool.DeleteAll()
	tool.ChangeMode(ModeSimpleSelect, "")
	if cb != nil {
		cb(nil, 0)
	}
}

// Dispose removes the session's toolkit handlers. The session ignores
// all calls and events afterwards.
func (s *Session) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	offs := s.offs
	s.offs = nil
	s.mu.Unlock()

	for _, off := range offs {
		off()
	}
}

func (s *Session) handleCreate(c Change) {
	f := firstFeature(c)
	ring := ringOf(f)

	s.mu.Lock()
	if s.disposed || s.state != Drawing || ring == nil {
		s.mu.Unlock()
		return
	}
	s.ring = ring
	s.area = s.safeArea(ring)
	s.featureID = featureIDOf(f)
	s.state = Placed
	cb := s.onChange
	area := s.area
	out := cloneRing(ring)
	s.mu.Unlock()

	if cb != nil {
		cb(out, area)
	}
}

func (s *Session) handleUpdate(c Change) {
	ring := ringOf(firstFeature(c))

	s.mu.Lock()
	if s.disposed || s.state != Editing || ring == nil {
		s.mu.Unlock()
		return
	}
	s.ring = ring
	s.area = s.safeArea(ring)
	cb := s.onChange
	area := s.area
	out := cloneRing(ring)
	s.mu.Unlock()

	if cb != nil {
		cb(out, area)
	}
}

// handleDelete reacts to the toolkit's own trash control.
func (s *Session) handleDelete(Change) {
	s.mu.Lock()
	if s.disposed || (s.state != Placed && s.state != Editing) {
		s.mu.Unlock()
		return
	}
	s.ring = nil
	s.area = 0
	s.featureID = ""
	s.state = Empty
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(nil, 0)
	}
}

// handleModeChange tracks the toolkit's implicit exit from vertex
// editing back to the resting mode.
func (s *Session) handleModeChange(c Change) {
	s.mu.Lock()
	if !s.disposed && s.state == Editing && c.Mode == ModeSimpleSelect {
		s.state = Placed
	}
	s.mu.Unlock()
}

// safeArea computes the ring area, collapsing any failure to 0 so that
// a degenerate ring can never break the interaction.
func (s *Session) safeArea(ring orb.Ring) (area float64) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("boundary area computation failed: %v", r)
			area = 0
		}
	}()
	return geo.RingArea(ring)
}

func firstFeature(c Change) *geojson.Feature {
	if len(c.Features) == 0 {
		return nil
	}
	return c.Features[0]
}

func ringOf(f *geojson.Feature) orb.Ring {
	if f == nil {
		return nil
	}
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		if len(g) > 0 {
			return cloneRing(g[0])
		}
	case orb.Ring:
		return cloneRing(g)
	}
	return nil
}

func featureIDOf(f *geojson.Feature) string {
	if f == nil || f.ID == nil {
		return ""
	}
	return fmt.Sprint(f.ID)
}

func cloneRing(ring orb.Ring) orb.Ring {
	if len(ring) == 0 {
		return nil
	}
	dup := make(orb.Ring, len(ring))
	copy(dup, ring)
	return dup
}
