package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadBoundary reads a GeoJSON file and returns the outer ring of the
// first polygon it contains. FeatureCollection, Feature and bare
// geometry documents are accepted. An empty path yields a nil ring
// with no error.
func LoadBoundary(path string) (orb.Ring, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundary: %w", err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse boundary %s: %w", path, err)
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse boundary %s: %w", path, err)
		}
		for _, f := range fc.Features {
			if ring := outerRing(f.Geometry); ring != nil {
				return ring, nil
			}
		}
		return nil, fmt.Errorf("boundary %s: no polygon feature", path)

	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("parse boundary %s: %w", path, err)
		}
		if ring := outerRing(f.Geometry); ring != nil {
			return ring, nil
		}
		return nil, fmt.Errorf("boundary %s: feature is not a polygon", path)

	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("parse boundary %s: %w", path, err)
		}
		if ring := outerRing(g.Geometry()); ring != nil {
			return ring, nil
		}
		return nil, fmt.Errorf("boundary %s: geometry is not a polygon", path)
	}
}

func outerRing(g orb.Geometry) orb.Ring {
	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) > 0 && len(geom[0]) > 0 {
			return geom[0]
		}
	case orb.MultiPolygon:
		if len(geom) > 0 && len(geom[0]) > 0 && len(geom[0][0]) > 0 {
			return geom[0][0]
		}
	}
	return nil
}
