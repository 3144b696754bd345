package mapctl

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"fieldbound/internal/engine"
	"fieldbound/internal/style"
)

// fakeEngine hands out scriptable handles and can be told to fail the
// next init attempts.
type fakeEngine struct {
	mu        sync.Mutex
	failInits int
	handles   []*fakeHandle
}

func (e *fakeEngine) Init(p engine.Params) (engine.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failInits > 0 {
		e.failInits--
		return nil, errors.New("engine refused to start")
	}
	h := &fakeHandle{
		center:    p.Center,
		zoom:      p.Zoom,
		def:       p.Style,
		sources:   make(map[string]orb.Geometry),
		layers:    make(map[string]engine.Layer),
		listeners: make(map[engine.Event]map[int]func(error)),
	}
	e.handles = append(e.handles, h)
	return h, nil
}

func (e *fakeEngine) last(t *testing.T) *fakeHandle {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.handles) == 0 {
		t.Fatal("engine was never initialized")
	}
	return e.handles[len(e.handles)-1]
}

// fakeHandle implements engine.Handle with manual event emission.
type fakeHandle struct {
	mu              sync.Mutex
	center          orb.Point
	zoom            float64
	def             style.Definition
	styleLoaded     bool
	styleLoadedHits int
	sources         map[string]orb.Geometry
	layers          map[string]engine.Layer
	listeners       map[engine.Event]map[int]func(error)
	nextListener    int
	fits            []orb.Bound
	removed         int
}

func (h *fakeHandle) On(ev engine.Event, fn func(error)) func() {
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

func (h *fakeHandle) emit(ev engine.Event, err error) {
	h.mu.Lock()
	fns := make([]func(error), 0, len(h.listeners[ev]))
	for _, fn := range h.listeners[ev] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(err)
	}
}

func (h *fakeHandle) listenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, m := range h.listeners {
		n += len(m)
	}
	return n
}

func (h *fakeHandle) SetStyle(def style.Definition) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.def = def
	h.styleLoaded = false
	h.sources = make(map[string]orb.Geometry)
	h.layers = make(map[string]engine.Layer)
}

func (h *fakeHandle) setStyleLoaded(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.styleLoaded = v
}

func (h *fakeHandle) IsStyleLoaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.styleLoadedHits++
	return h.styleLoaded
}

func (h *fakeHandle) loadedChecks() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.styleLoadedHits
}

func (h *fakeHandle) Center() orb.Point { h.mu.Lock(); defer h.mu.Unlock(); return h.center }
func (h *fakeHandle) Zoom() float64     { h.mu.Lock(); defer h.mu.Unlock(); return h.zoom }

func (h *fakeHandle) SetCenter(c orb.Point) { h.mu.Lock(); defer h.mu.Unlock(); h.center = c }
func (h *fakeHandle) SetZoom(z float64)     { h.mu.Lock(); defer h.mu.Unlock(); h.zoom = z }

func (h *fakeHandle) FitBounds(b orb.Bound, opts engine.FitOptions) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fits = append(h.fits, b)
	h.center = b.Center()
}

func (h *fakeHandle) AddSource(id string, geom orb.Geometry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sources[id]; ok {
		return errors.New("source exists")
	}
	h.sources[id] = geom
	return nil
}

func (h *fakeHandle) AddLayer(l engine.Layer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.layers[l.ID]; ok {
		return errors.New("layer exists")
	}
	if _, ok := h.sources[l.Source]; !ok {
		return errors.New("layer source missing")
	}
	h.layers[l.ID] = l
	return nil
}

func (h *fakeHandle) RemoveLayer(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.layers[id]; !ok {
		return errors.New("no such layer")
	}
	delete(h.layers, id)
	return nil
}

func (h *fakeHandle) RemoveSource(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sources[id]; !ok {
		return errors.New("no such source")
	}
	delete(h.sources, id)
	return nil
}

func (h *fakeHandle) HasSource(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.sources[id]
	return ok
}

func (h *fakeHandle) HasLayer(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.layers[id]
	return ok
}

func (h *fakeHandle) Remove() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removed++
	h.listeners = make(map[engine.Event]map[int]func(error))
}

func (h *fakeHandle) counts() (sources, layers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sources), len(h.layers)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func testParams() engine.Params {
	return engine.Params{
		Width:  80,
		Height: 24,
		Style:  style.Street(),
		Center: orb.Point{-93.62, 42.03},
		Zoom:   13,
	}
}
