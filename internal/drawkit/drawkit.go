// Package drawkit is the terminal vertex-editing toolkit.
//
// It implements the draw.Tool contract over an engine handle: the UI
// feeds it crosshair positions and nudge commands, and it maintains its
// own session source and layers on the engine, emitting create, update,
// delete and modechange events toward the drawing session. A style
// swap discards those layers along with everything else the engine
// holds; Resync puts them back for the new style.
package drawkit

import (
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"fieldbound/internal/draw"
	"fieldbound/internal/engine"
)

// Fixed ids for the toolkit's own source/layer set.
const (
	SessionSourceID = "draw-session"
	SessionFillID   = "draw-session-fill"
	SessionStrokeID = "draw-session-stroke"
	PendingSourceID = "draw-pending"
	PendingLineID   = "draw-pending-line"
)

// Options mirror the toolkit construction contract: default controls
// off, an explicit allow-list, and a style theme for the feature
// layers.
type Options struct {
	DisplayControlsDefault bool
	EnabledControls        []string
	FillColor              string
	StrokeColor            string
	PendingColor           string
}

// Kit drives vertex editing for at most one polygon feature.
type Kit struct {
	opts Options

	mu        sync.Mutex
	h         engine.Handle
	mode      draw.Mode
	feature   *geojson.Feature
	ring      orb.Ring // unclosed vertex list of the placed feature
	pending   orb.Ring // vertices collected in draw mode
	selected  int      // vertex index in direct-select mode
	listeners map[draw.Event]map[int]func(draw.Change)
	nextID    int
}

// New returns a kit bound to the handle, which may be nil until the
// engine is up; Rebind attaches one later.
func New(h engine.Handle, opts Options) *Kit {
	if opts.FillColor == "" {
		opts.FillColor = "#e0af68"
	}
	if opts.StrokeColor == "" {
		opts.StrokeColor = "#ff9e64"
	}
	if opts.PendingColor == "" {
		opts.PendingColor = "#9ece6a"
	}
	return &Kit{
		opts:      opts,
		h:         h,
		mode:      draw.ModeSimpleSelect,
		listeners: make(map[draw.Event]map[int]func(draw.Change)),
	}
}

// Rebind points the kit at a fresh engine handle (after a viewport
// retry) and re-adds its layers there.
func (k *Kit) Rebind(h engine.Handle) {
	k.mu.Lock()
	k.h = h
	k.sync()
	k.mu.Unlock()
}

// Add registers an externally supplied feature, assigning an id when it
// has none. Any prior feature is replaced; no event is emitted.
func (k *Kit) Add(f *geojson.Feature) {
	if f == nil {
		return
	}
	if f.ID == nil {
		f.ID = uuid.NewString()
	}
	k.mu.Lock()
	k.feature = f
	k.ring = ringOf(f.Geometry)
	k.selected = 0
	k.sync()
	k.mu.Unlock()
}

// All returns the current feature set.
func (k *Kit) All() *geojson.FeatureCollection {
	k.mu.Lock()
	defer k.mu.Unlock()
	fc := geojson.NewFeatureCollection()
	if k.feature != nil {
		fc.Append(k.feature)
	}
	return fc
}

// DeleteAll discards the feature and any pending vertices without
// emitting events; programmatic clears are the session's own doing.
func (k *Kit) DeleteAll() {
	k.mu.Lock()
	k.feature = nil
	k.ring = nil
	k.pending = nil
	k.selected = 0
	k.sync()
	k.mu.Unlock()
}

// ChangeMode switches the interaction mode and announces it.
func (k *Kit) ChangeMode(mode draw.Mode, featureID string) {
	k.mu.Lock()
	if k.mode == mode {
		k.mu.Unlock()
		return
	}
	k.mode = mode
	if mode != draw.ModeDrawPolygon {
		k.pending = nil
	}
	k.selected = 0
	k.sync()
	k.mu.Unlock()

	k.emit(draw.EventModeChange, draw.Change{Mode: mode})
}

// Mode returns the current interaction mode.
func (k *Kit) Mode() draw.Mode {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.mode
}

// On registers fn for ev and returns its removal func.
func (k *Kit) On(ev draw.Event, fn func(draw.Change)) func() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.listeners[ev] == nil {
		k.listeners[ev] = make(map[int]func(draw.Change))
	}
	id := k.nextID
	k.nextID++
	k.listeners[ev][id] = fn
	return func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		delete(k.listeners[ev], id)
	}
}

// PlaceVertex appends a vertex to the pending ring while drawing.
func (k *Kit) PlaceVertex(p orb.Point) {
	k.mu.Lock()
	if k.mode != draw.ModeDrawPolygon {
		k.mu.Unlock()
		return
	}
	k.pending = append(k.pending, p)
	k.sync()
	k.mu.Unlock()
}

// UndoVertex drops the most recent pending vertex.
func (k *Kit) UndoVertex() {
	k.mu.Lock()
	if k.mode == draw.ModeDrawPolygon && len(k.pending) > 0 {
		k.pending = k.pending[:len(k.pending)-1]
		k.sync()
	}
	k.mu.Unlock()
}

// PendingCount returns how many vertices the in-progress ring has.
func (k *Kit) PendingCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.pending)
}

// CloseRing finishes the pending ring into a feature. Rings need at
// least three vertices; otherwise nothing happens. Emits create, then
// the modechange back to simple select.
func (k *Kit) CloseRing() {
	k.mu.Lock()
	if k.mode != draw.ModeDrawPolygon || len(k.pending) < 3 {
		k.mu.Unlock()
		return
	}
	ring := k.pending
	k.pending = nil
	k.ring = ring
	f := geojson.NewFeature(orb.Polygon{closedRing(ring)})
	f.ID = uuid.NewString()
	k.feature = f
	k.mode = draw.ModeSimpleSelect
	k.sync()
	k.mu.Unlock()

	k.emit(draw.EventCreate, draw.Change{Features: []*geojson.Feature{f}})
	k.emit(draw.EventModeChange, draw.Change{Mode: draw.ModeSimpleSelect})
}

// SelectNextVertex cycles the selected vertex in direct-select mode.
func (k *Kit) SelectNextVertex() {
	k.mu.Lock()
	if k.mode == draw.ModeDirectSelect && len(k.ring) > 0 {
		k.selected = (k.selected + 1) % len(k.ring)
	}
	k.mu.Unlock()
}

// SelectedVertex returns the index and position of the selected vertex,
// or -1 outside direct-select mode.
func (k *Kit) SelectedVertex() (int, orb.Point) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.mode != draw.ModeDirectSelect || len(k.ring) == 0 {
		return -1, orb.Point{}
	}
	return k.selected, k.ring[k.selected]
}

// NudgeVertex moves the selected vertex by the given deltas and emits
// an update carrying the changed feature.
func (k *Kit) NudgeVertex(dLon, dLat float64) {
	k.mu.Lock()
	if k.mode != draw.ModeDirectSelect || k.feature == nil || len(k.ring) == 0 {
		k.mu.Unlock()
		return
	}
	v := k.ring[k.selected]
	k.ring[k.selected] = orb.Point{v[0] + dLon, v[1] + dLat}
	k.feature.Geometry = orb.Polygon{closedRing(k.ring)}
	f := k.feature
	k.sync()
	k.mu.Unlock()

	k.emit(draw.EventUpdate, draw.Change{Features: []*geojson.Feature{f}})
}

// Trash is the toolkit's own delete control: it removes the feature and
// emits a delete event.
func (k *Kit) Trash() {
	k.mu.Lock()
	if k.feature == nil {
		k.mu.Unlock()
		return
	}
	f := k.feature
	k.feature = nil
	k.ring = nil
	k.selected = 0
	k.mode = draw.ModeSimpleSelect
	k.sync()
	k.mu.Unlock()

	k.emit(draw.EventDelete, draw.Change{Features: []*geojson.Feature{f}})
}

// Resync re-adds the kit's source/layer set to the engine after a style
// swap discarded it.
func (k *Kit) Resync() {
	k.mu.Lock()
	k.sync()
	k.mu.Unlock()
}

// sync rebuilds the kit's sources and layers on the engine. Callers
// hold k.mu. Every engine error is swallowed: the engine may be mid
// style-swap or gone entirely, and toolkit rendering must never fail
// the interaction.
func (k *Kit) sync() {
	h := k.h
	if h == nil {
		return
	}
	_ = h.RemoveLayer(SessionStrokeID)
	_ = h.RemoveLayer(SessionFillID)
	_ = h.RemoveSource(SessionSourceID)
	_ = h.RemoveLayer(PendingLineID)
	_ = h.RemoveSource(PendingSourceID)

	if k.feature != nil {
		_ = h.AddSource(SessionSourceID, k.feature.Geometry)
		_ = h.AddLayer(engine.Layer{
			ID: SessionFillID, Type: engine.LayerFill, Source: SessionSourceID, Color: k.opts.FillColor,
		})
		_ = h.AddLayer(engine.Layer{
			ID: SessionStrokeID, Type: engine.LayerLine, Source: SessionSourceID, Color: k.opts.StrokeColor,
		})
	}
	if len(k.pending) > 0 {
		_ = h.AddSource(PendingSourceID, orb.LineString(k.pending))
		_ = h.AddLayer(engine.Layer{
			ID: PendingLineID, Type: engine.LayerLine, Source: PendingSourceID, Color: k.opts.PendingColor,
		})
	}
}

func (k *Kit) emit(ev draw.Event, c draw.Change) {
	k.mu.Lock()
	fns := make([]func(draw.Change), 0, len(k.listeners[ev]))
	for _, fn := range k.listeners[ev] {
		fns = append(fns, fn)
	}
	k.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

func ringOf(g orb.Geometry) orb.Ring {
	if poly, ok := g.(orb.Polygon); ok && len(poly) > 0 {
		ring := append(orb.Ring(nil), poly[0]...)
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		return ring
	}
	return nil
}

func closedRing(ring orb.Ring) orb.Ring {
	out := append(orb.Ring(nil), ring...)
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}
