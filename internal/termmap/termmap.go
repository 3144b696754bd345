// Package termmap is a rendering engine over a grid of terminal cells.
//
// It implements the engine contract with an equirectangular projection
// centered on the camera and a 2x4 braille microgrid per cell for
// polygon fills and edges. Style loading is simulated with a settle
// delay so the load/idle lifecycle behaves like a real tile engine:
// IsStyleLoaded reports false from SetStyle until the delay elapses,
// then an idle event fires.
package termmap

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"fieldbound/internal/engine"
	"fieldbound/internal/style"
)

const (
	defaultLoadDelay   = 30 * time.Millisecond
	defaultSettleDelay = 120 * time.Millisecond

	minZoom    = 0
	maxZoom    = 22
	maxFitZoom = 18
)

// Engine creates terminal rendering surfaces.
type Engine struct {
	// LoadDelay is how long after Init the load event fires.
	LoadDelay time.Duration
	// SettleDelay is how long a swapped style takes to report loaded.
	SettleDelay time.Duration
}

// New returns an engine with the default lifecycle delays.
func New() *Engine {
	return &Engine{LoadDelay: defaultLoadDelay, SettleDelay: defaultSettleDelay}
}

// Init creates a surface for the given container size.
func (e *Engine) Init(p engine.Params) (engine.Handle, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("termmap: container size %dx%d", p.Width, p.Height)
	}
	h := &Handle{
		width:       p.Width,
		height:      p.Height,
		center:      p.Center,
		zoom:        clampZoom(p.Zoom),
		interactive: p.Interactive,
		def:         p.Style,
		settleDelay: e.SettleDelay,
		sources:     make(map[string]orb.Geometry),
		listeners:   make(map[engine.Event]map[int]func(error)),
	}
	h.after(e.LoadDelay, func() {
		h.mu.Lock()
		h.styleLoaded = true
		h.mu.Unlock()
		h.emit(engine.EventLoad, nil)
		h.emit(engine.EventIdle, nil)
	})
	return h, nil
}

// Handle is a live terminal surface.
type Handle struct {
	mu           sync.Mutex
	width        int
	height       int
	center       orb.Point
	zoom         float64
	interactive  bool
	def          style.Definition
	styleLoaded  bool
	settleDelay  time.Duration
	sources      map[string]orb.Geometry
	layers       []engine.Layer
	listeners    map[engine.Event]map[int]func(error)
	nextListener int
	timers       []*time.Timer
	removed      bool
}

// On registers fn for ev and returns its removal func. Events are
// delivered from timer goroutines, never from the caller's.
func (h *Handle) On(ev engine.Event, fn func(error)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners[ev] == nil {
		h.listeners[ev] = make(map[int]func(error))
	}
	id := h.nextListener
	h.nextListener++
	h.listeners[ev][id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners[ev], id)
	}
}

// SetStyle replaces the style wholesale: every source and layer is
// discarded and the surface reports not-loaded until the settle delay
// elapses, after which an idle event fires.
func (h *Handle) SetStyle(def style.Definition) {
	h.mu.Lock()
	h.def = def
	h.sources = make(map[string]orb.Geometry)
	h.layers = nil
	h.styleLoaded = false
	d := h.settleDelay
	h.mu.Unlock()

	h.after(d, func() {
		h.mu.Lock()
		h.styleLoaded = true
		h.mu.Unlock()
		h.emit(engine.EventIdle, nil)
	})
}

// IsStyleLoaded reports whether the current style finished loading.
func (h *Handle) IsStyleLoaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.styleLoaded
}

// Center returns the camera center.
func (h *Handle) Center() orb.Point {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.center
}

// Zoom returns the camera zoom.
func (h *Handle) Zoom() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.zoom
}

// Resize changes the surface dimensions. Sub-positive sizes are ignored.
func (h *Handle) Resize(width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	h.width = width
	h.height = height
}

// SetCenter moves the camera.
func (h *Handle) SetCenter(c orb.Point) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.center = c
}

// SetZoom sets the camera zoom, clamped to the supported range.
func (h *Handle) SetZoom(z float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.zoom = clampZoom(z)
}

// FitBounds centers the camera on b and picks the largest zoom that
// keeps the bound inside the viewport minus the padding cells.
func (h *Handle) FitBounds(b orb.Bound, opts engine.FitOptions) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.center = b.Center()

	spanX := b.Max[0] - b.Min[0]
	spanY := b.Max[1] - b.Min[1]
	if spanX <= 0 && spanY <= 0 {
		h.zoom = maxFitZoom
		return
	}

	usableW := float64(maxInt(h.width-2*opts.Padding, 1))
	usableH := float64(maxInt(h.height-2*opts.Padding, 1))
	w := float64(h.width)

	z := float64(maxFitZoom)
	if spanX > 0 {
		z = math.Min(z, math.Log2(360*usableW/(w*spanX)))
	}
	if spanY > 0 {
		// A cell is twice as tall as wide, so rows cover twice the
		// degrees columns do.
		z = math.Min(z, math.Log2(720*usableH/(w*spanY)))
	}
	h.zoom = clampZoom(z)
}

// AddSource registers a geometry under id.
func (h *Handle) AddSource(id string, geom orb.Geometry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removed {
		return fmt.Errorf("termmap: surface removed")
	}
	if _, ok := h.sources[id]; ok {
		return fmt.Errorf("termmap: source %q already exists", id)
	}
	h.sources[id] = geom
	return nil
}

// AddLayer appends a layer; its source must exist.
func (h *Handle) AddLayer(l engine.Layer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removed {
		return fmt.Errorf("termmap: surface removed")
	}
	if _, ok := h.sources[l.Source]; !ok {
		return fmt.Errorf("termmap: layer %q references unknown source %q", l.ID, l.Source)
	}
	for _, existing := range h.layers {
		if existing.ID == l.ID {
			return fmt.Errorf("termmap: layer %q already exists", l.ID)
		}
	}
	h.layers = append(h.layers, l)
	return nil
}

// RemoveLayer removes the layer, erroring when it is absent.
func (h *Handle) RemoveLayer(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.layers {
		if l.ID == id {
			h.layers = append(h.layers[:i], h.layers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("termmap: no layer %q", id)
}

// RemoveSource removes the source; layers must be removed first.
func (h *Handle) RemoveSource(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sources[id]; !ok {
		return fmt.Errorf("termmap: no source %q", id)
	}
	for _, l := range h.layers {
		if l.Source == id {
			return fmt.Errorf("termmap: source %q still used by layer %q", id, l.ID)
		}
	}
	delete(h.sources, id)
	return nil
}

// HasSource reports whether id is registered.
func (h *Handle) HasSource(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.sources[id]
	return ok
}

// HasLayer reports whether id is registered.
func (h *Handle) HasLayer(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, l := range h.layers {
		if l.ID == id {
			return true
		}
	}
	return false
}

// Remove releases the surface: pending timers are stopped, listeners
// dropped, and no further events fire. Safe to call more than once.
func (h *Handle) Remove() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removed {
		return
	}
	h.removed = true
	for _, t := range h.timers {
		t.Stop()
	}
	h.timers = nil
	h.listeners = make(map[engine.Event]map[int]func(error))
	h.sources = make(map[string]orb.Geometry)
	h.layers = nil
}

func (h *Handle) after(d time.Duration, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removed {
		return
	}
	h.timers = append(h.timers, time.AfterFunc(d, fn))
}

func (h *Handle) emit(ev engine.Event, err error) {
	h.mu.Lock()
	if h.removed {
		h.mu.Unlock()
		return
	}
	fns := make([]func(error), 0, len(h.listeners[ev]))
	for _, fn := range h.listeners[ev] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(err)
	}
}

func clampZoom(z float64) float64 {
	return math.Max(minZoom, math.Min(maxZoom, z))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
