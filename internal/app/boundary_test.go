package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeBoundary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boundary.geojson")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write boundary: %v", err)
	}
	return path
}

const polygonJSON = `{
  "type": "Polygon",
  "coordinates": [[[ -93.63, 42.02 ], [ -93.61, 42.02 ], [ -93.61, 42.04 ], [ -93.63, 42.04 ], [ -93.63, 42.02 ]]]
}`

func TestLoadBoundary_EmptyPathIsNil(t *testing.T) {
	ring, err := LoadBoundary("")
	if err != nil {
		t.Fatalf("LoadBoundary: %v", err)
	}
	if ring != nil {
		t.Fatalf("ring = %v, want nil", ring)
	}
}

func TestLoadBoundary_BareGeometry(t *testing.T) {
	ring, err := LoadBoundary(writeBoundary(t, polygonJSON))
	if err != nil {
		t.Fatalf("LoadBoundary: %v", err)
	}
	if len(ring) != 5 {
		t.Fatalf("ring has %d points, want 5", len(ring))
	}
}

func TestLoadBoundary_FeatureCollection(t *testing.T) {
	content := `{
  "type": "FeatureCollection",
  "features": [
    { "type": "Feature", "properties": {}, "geometry": { "type": "Point", "coordinates": [0, 0] } },
    { "type": "Feature", "properties": {}, "geometry": ` + polygonJSON + ` }
  ]
}`
	ring, err := LoadBoundary(writeBoundary(t, content))
	if err != nil {
		t.Fatalf("LoadBoundary: %v", err)
	}
	if len(ring) != 5 {
		t.Fatalf("ring has %d points, want 5", len(ring))
	}
	if ring[0][0] != -93.63 || ring[0][1] != 42.02 {
		t.Fatalf("ring[0] = %v", ring[0])
	}
}

func TestLoadBoundary_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not geojson", `{{{`},
		{"no polygon", `{ "type": "FeatureCollection", "features": [
			{ "type": "Feature", "properties": {}, "geometry": { "type": "Point", "coordinates": [1, 2] } }
		] }`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadBoundary(writeBoundary(t, tc.content)); err == nil {
				t.Fatal("LoadBoundary accepted bad input")
			}
		})
	}

	if _, err := LoadBoundary(filepath.Join(t.TempDir(), "missing.geojson")); err == nil {
		t.Fatal("LoadBoundary accepted missing file")
	}
}
