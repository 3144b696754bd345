// Package engine defines the rendering-engine contract the map
// controllers consume. An engine owns the drawing surface, the camera
// and the source/layer table; everything in this package is interface
// and plain data so controllers never depend on a concrete renderer.
package engine

import (
	"github.com/paulmach/orb"

	"fieldbound/internal/style"
)

// Event identifies an engine lifecycle signal.
type Event string

const (
	// EventLoad fires once, when the initial style has finished loading.
	EventLoad Event = "load"
	// EventIdle fires when all pending render and style work has settled.
	EventIdle Event = "idle"
	// EventError reports an engine failure; the callback receives it.
	EventError Event = "error"
)

// LayerType selects how a layer paints its source.
type LayerType string

const (
	LayerFill LayerType = "fill"
	LayerLine LayerType = "line"
)

// Layer describes one rendered layer bound to a source id.
type Layer struct {
	ID     string
	Type   LayerType
	Source string
	Color  string
}

// Controls configures which interaction controls the surface exposes.
type Controls struct {
	ShowDefaults bool
	Enabled      []string
}

// Params configures a new rendering surface. Width and Height are the
// container size in terminal cells.
type Params struct {
	Width       int
	Height      int
	Style       style.Definition
	Center      orb.Point
	Zoom        float64
	Interactive bool
	Controls    Controls
}

// FitOptions tune FitBounds framing.
type FitOptions struct {
	Padding int // cells kept clear around the bound
}

// Engine creates rendering surfaces.
type Engine interface {
	Init(p Params) (Handle, error)
}

// Handle is a live rendering surface.
//
// Event callbacks are delivered asynchronously and must not assume they
// run on the caller's goroutine. On returns a removal func; calling it
// after Remove is safe. Remove is idempotent. SetStyle discards every
// source and layer the handle holds; IsStyleLoaded reports false until
// the replacement style has settled.
type Handle interface {
	On(ev Event, fn func(err error)) (off func())

	SetStyle(def style.Definition)
	IsStyleLoaded() bool

	Center() orb.Point
	Zoom() float64
	SetCenter(c orb.Point)
	SetZoom(z float64)
	FitBounds(b orb.Bound, opts FitOptions)

	AddSource(id string, geom orb.Geometry) error
	AddLayer(l Layer) error
	RemoveLayer(id string) error
	RemoveSource(id string) error
	HasSource(id string) bool
	HasLayer(id string) bool

	Remove()
}
