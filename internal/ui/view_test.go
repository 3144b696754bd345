package ui

import (
	"testing"

	"fieldbound/internal/draw"
	"fieldbound/internal/state"
)

func TestStatusHint_TracksSessionState(t *testing.T) {
	tests := []struct {
		session draw.State
		want    string
	}{
		{draw.Empty, "d draw  arrows pan  +/- zoom  s basemap  ? help"},
		{draw.Drawing, "enter place  backspace undo  c close  esc cancel"},
		{draw.Placed, "e edit  x delete  d redraw  ? help"},
		{draw.Editing, "tab vertex  arrows nudge  x delete  esc done"},
	}
	for _, tc := range tests {
		m := Model{snapshot: state.Snapshot{Session: tc.session}}
		if got := m.statusHint(); got != tc.want {
			t.Fatalf("statusHint(%v) = %q, want %q", tc.session, got, tc.want)
		}
	}
}

func TestStatusHint_ReadOnlyHidesMutations(t *testing.T) {
	m := Model{readOnly: true, snapshot: state.Snapshot{Session: draw.Placed}}
	if got := m.statusHint(); got != "arrows pan  +/- zoom  s basemap  ? help" {
		t.Fatalf("statusHint read-only = %q", got)
	}
}

func TestPanStep_HalvesPerZoomLevel(t *testing.T) {
	if got := panStep(0); got != 36 {
		t.Fatalf("panStep(0) = %f, want 36", got)
	}
	if got := panStep(1); got != 18 {
		t.Fatalf("panStep(1) = %f, want 18", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("a very long line", 8); got != "a very …" {
		t.Fatalf("truncate long = %q", got)
	}
}
