package mapctl

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"

	"fieldbound/internal/engine"
)

// Callbacks notify the host of viewport lifecycle changes. They may be
// invoked from engine goroutines.
type Callbacks struct {
	// OnReady fires once the engine reports its initial style loaded.
	OnReady func()
	// OnError reports engine failures, including init failures.
	OnError func(error)
	// OnStyleSwap fires after a style swap has settled, carrying the
	// new style generation.
	OnStyleSwap func(generation uint64)
}

// Viewport owns one rendering surface: its creation, camera, style
// transitions and teardown. A failed init leaves the viewport in a
// recoverable error state; Retry re-creates the surface from scratch
// because partial engine state cannot be trusted.
type Viewport struct {
	eng    engine.Engine
	params engine.Params
	cbs    Callbacks

	mu      sync.Mutex
	handle  engine.Handle
	ready   bool
	initErr error
	styleID string
	gen     uint64
	pending *styleSwap
	offs    []func()
}

// New creates a viewport for the given engine. Call Init to bring the
// surface up.
func New(eng engine.Engine, params engine.Params, cbs Callbacks) *Viewport {
	return &Viewport{eng: eng, params: params, cbs: cbs, styleID: params.Style.ID}
}

// Init creates the rendering surface and registers lifecycle listeners.
func (v *Viewport) Init() error {
	v.mu.Lock()
	if v.handle != nil {
		v.mu.Unlock()
		return fmt.Errorf("viewport already initialized")
	}
	v.mu.Unlock()

	h, err := v.eng.Init(v.params)
	if err != nil {
		v.mu.Lock()
		v.initErr = err
		cb := v.cbs.OnError
		v.mu.Unlock()
		if cb != nil {
			cb(err)
		}
		return fmt.Errorf("init map engine: %w", err)
	}

	offLoad := h.On(engine.EventLoad, func(error) {
		v.mu.Lock()
		v.ready = true
		cb := v.cbs.OnReady
		v.mu.Unlock()
		if cb != nil {
			cb()
		}
	})
	offErr := h.On(engine.EventError, func(err error) {
		v.mu.Lock()
		if !v.ready {
			v.initErr = err
		}
		cb := v.cbs.OnError
		v.mu.Unlock()
		if cb != nil && err != nil {
			cb(err)
		}
	})

	v.mu.Lock()
	v.handle = h
	v.initErr = nil
	v.offs = append(v.offs, offLoad, offErr)
	v.mu.Unlock()
	return nil
}

// Retry tears down whatever a failed init left behind and re-creates
// the surface. Nothing from the previous attempt is reused.
func (v *Viewport) Retry() error {
	v.Teardown()
	return v.Init()
}

// Teardown releases the surface, its listeners and any pending style
// swap. Safe to call more than once.
func (v *Viewport) Teardown() {
	v.mu.Lock()
	h := v.handle
	offs := v.offs
	v.handle = nil
	v.offs = nil
	v.pending = nil
	v.ready = false
	v.initErr = nil
	v.mu.Unlock()

	for _, off := range offs {
		off()
	}
	if h != nil {
		h.Remove()
	}
}

// Ready reports whether the engine finished loading its initial style.
func (v *Viewport) Ready() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ready
}

// Err returns the error of a failed init, or nil.
func (v *Viewport) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.initErr
}

// Generation returns the current style generation. It increments
// exactly once per completed style swap.
func (v *Viewport) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gen
}

// StyleID returns the id of the current (or incoming) base style.
func (v *Viewport) StyleID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.styleID
}

// Handle returns the live engine handle, or nil before Init and after
// Teardown.
func (v *Viewport) Handle() engine.Handle {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.handle
}

// Center returns the camera center, or the configured initial center
// when no surface exists.
func (v *Viewport) Center() orb.Point {
	if h := v.Handle(); h != nil {
		return h.Center()
	}
	return v.params.Center
}

// Zoom returns the camera zoom, or the configured initial zoom when no
// surface exists.
func (v *Viewport) Zoom() float64 {
	if h := v.Handle(); h != nil {
		return h.Zoom()
	}
	return v.params.Zoom
}
