package state

import (
	"testing"
	"time"

	"github.com/paulmach/orb"

	"fieldbound/internal/draw"
)

func TestStore_SetBoundaryAndSnapshotClone(t *testing.T) {
	var s Store

	ring := orb.Ring{{0, 0}, {0, 1}, {1, 1}}
	before := time.Now()
	s.SetBoundary(ring, 12345.6)

	snap := s.Snapshot()
	if !snap.HasBoundary || len(snap.Boundary) != 3 {
		t.Fatalf("snapshot boundary = %#v, want 3 vertices", snap.Boundary)
	}
	if snap.AreaSquareMeters != 12345.6 {
		t.Fatalf("area = %f, want 12345.6", snap.AreaSquareMeters)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot must be independent of the stored one.
	snap.Boundary[0] = orb.Point{9, 9}
	if got := s.Snapshot().Boundary[0]; got != (orb.Point{0, 0}) {
		t.Fatalf("Snapshot should clone boundary; got %v", got)
	}
}

func TestStore_NilBoundaryClearsState(t *testing.T) {
	var s Store
	s.SetBoundary(orb.Ring{{0, 0}, {0, 1}, {1, 1}}, 10)

	s.SetBoundary(nil, 0)
	snap := s.Snapshot()
	if snap.HasBoundary || snap.Boundary != nil || snap.AreaSquareMeters != 0 {
		t.Fatalf("snapshot after delete = %#v, want empty boundary", snap)
	}
}

func TestStore_SessionAndStyle(t *testing.T) {
	var s Store

	s.SetSession(draw.Editing)
	s.SetStyle("satellite", 3)

	snap := s.Snapshot()
	if snap.Session != draw.Editing {
		t.Fatalf("session = %v, want %v", snap.Session, draw.Editing)
	}
	if snap.StyleID != "satellite" || snap.Generation != 3 {
		t.Fatalf("style = (%q, %d), want (satellite, 3)", snap.StyleID, snap.Generation)
	}
}
