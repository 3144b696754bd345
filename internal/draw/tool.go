package draw

import "github.com/paulmach/orb/geojson"

// Mode is a toolkit interaction mode.
type Mode string

const (
	// ModeDrawPolygon collects vertices for a new ring.
	ModeDrawPolygon Mode = "draw_polygon"
	// ModeSimpleSelect is the resting mode with a placed feature.
	ModeSimpleSelect Mode = "simple_select"
	// ModeDirectSelect drags individual vertices of the placed feature.
	ModeDirectSelect Mode = "direct_select"
)

// Event identifies a toolkit notification.
type Event string

const (
	EventCreate     Event = "create"
	EventUpdate     Event = "update"
	EventDelete     Event = "delete"
	EventModeChange Event = "modechange"
)

// Change carries the features affected by a toolkit event. ModeChange
// events carry the mode entered instead of features.
type Change struct {
	Features []*geojson.Feature
	Mode     Mode
}

// Tool is the vertex-editing toolkit a Session drives. It owns all
// pointer-level interaction; the session only switches modes and reacts
// to the events the toolkit emits.
//
// Event callbacks may be invoked from any goroutine and must be
// delivered outside the toolkit's internal locks so handlers can call
// back into the Tool.
type Tool interface {
	Add(f *geojson.Feature)
	All() *geojson.FeatureCollection
	DeleteAll()
	ChangeMode(mode Mode, featureID string)
	On(ev Event, fn func(Change)) (off func())
}
