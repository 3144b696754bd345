// Package geo computes geodesic measurements for boundary rings.
package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

const squareMetersPerHectare = 10000

// RingArea returns the geodesic surface area of the ring in square
// meters, computed on the sphere rather than a flat-plane projection.
//
// Rings with fewer than three distinct vertices, and rings whose edges
// cross each other, enclose nothing and return exactly 0. RingArea
// never panics.
func RingArea(ring orb.Ring) float64 {
	pts := distinctVertices(ring)
	if len(pts) < 3 {
		return 0
	}
	if selfIntersects(pts) {
		return 0
	}

	closed := make(orb.Ring, 0, len(pts)+1)
	closed = append(closed, pts...)
	closed = append(closed, pts[0])

	area := math.Abs(orbgeo.Area(orb.Polygon{closed}))
	if math.IsNaN(area) || math.IsInf(area, 0) {
		return 0
	}
	return area
}

// FormatArea renders an area for display: square meters with one
// decimal below one hectare, hectares with two decimals at or above.
func FormatArea(squareMeters float64) string {
	if squareMeters < squareMetersPerHectare {
		return fmt.Sprintf("%.1f m²", squareMeters)
	}
	return fmt.Sprintf("%.2f ha", squareMeters/squareMetersPerHectare)
}

// distinctVertices drops consecutive duplicates and the closing vertex
// when the ring repeats its first point at the end.
func distinctVertices(ring orb.Ring) []orb.Point {
	out := make([]orb.Point, 0, len(ring))
	for _, p := range ring {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// selfIntersects reports whether any two non-adjacent edges of the
// (implicitly closed) ring properly cross.
func selfIntersects(pts []orb.Point) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		a1 := pts[i]
		a2 := pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue // adjacent edges share a vertex
			}
			b1 := pts[j]
			b2 := pts[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports a proper crossing: the segments intersect at a
// point interior to both.
func segmentsCross(p1, p2, q1, q2 orb.Point) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func orient(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}
