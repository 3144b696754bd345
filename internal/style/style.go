// Package style holds the built-in base-map styles as pure data.
//
// A Definition is always supplied whole: the rendering engine discards
// every source and layer it holds when a new style arrives, so there is
// no partial-diff path and nothing here carries runtime state.
package style

// Source describes where a base layer's data comes from.
type Source struct {
	ID   string
	Kind string // "raster" or "vector"
	URL  string
}

// Layer paints one source.
type Layer struct {
	ID     string
	Type   string // "background", "raster"
	Source string
	Color  string
}

// Definition is one complete base-map style.
type Definition struct {
	ID      string
	Sources []Source
	Layers  []Layer
}

// Built-in style ids, in toggle order.
const (
	StreetID    = "street"
	SatelliteID = "satellite"
)

// Street returns the default street base map.
func Street() Definition {
	return Definition{
		ID: StreetID,
		Sources: []Source{
			{ID: "street-tiles", Kind: "raster", URL: "builtin://street"},
		},
		Layers: []Layer{
			{ID: "street-background", Type: "background", Color: "#1a1d23"},
			{ID: "street-base", Type: "raster", Source: "street-tiles", Color: "#3b4252"},
		},
	}
}

// Satellite returns the satellite imagery base map.
func Satellite() Definition {
	return Definition{
		ID: SatelliteID,
		Sources: []Source{
			{ID: "satellite-tiles", Kind: "raster", URL: "builtin://satellite"},
		},
		Layers: []Layer{
			{ID: "satellite-background", Type: "background", Color: "#10140e"},
			{ID: "satellite-base", Type: "raster", Source: "satellite-tiles", Color: "#2e3d2a"},
		},
	}
}

// ByID resolves a built-in style id.
func ByID(id string) (Definition, bool) {
	switch id {
	case StreetID:
		return Street(), true
	case SatelliteID:
		return Satellite(), true
	}
	return Definition{}, false
}

// Next returns the style following id in toggle order.
func Next(id string) string {
	if id == StreetID {
		return SatelliteID
	}
	return StreetID
}
