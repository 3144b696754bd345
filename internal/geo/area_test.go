package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestRingArea_EquatorialSquare(t *testing.T) {
	// 0.001° × 0.001° at the equator is roughly 111m × 110.5m.
	ring := orb.Ring{{0, 0}, {0, 0.001}, {0.001, 0.001}, {0.001, 0}}

	got := RingArea(ring)
	if got < 11800 || got > 12800 {
		t.Fatalf("RingArea = %f, want within [11800, 12800]", got)
	}
}

func TestRingArea_ClosedAndUnclosedAgree(t *testing.T) {
	open := orb.Ring{{10, 50}, {10.01, 50}, {10.01, 50.01}, {10, 50.01}}
	closed := append(append(orb.Ring{}, open...), open[0])

	a := RingArea(open)
	b := RingArea(closed)
	if a <= 0 {
		t.Fatalf("RingArea(open) = %f, want > 0", a)
	}
	if math.Abs(a-b) > 1e-6 {
		t.Fatalf("open ring area %f != closed ring area %f", a, b)
	}
}

func TestRingArea_SimpleRingsArePositiveFinite(t *testing.T) {
	rings := map[string]orb.Ring{
		"triangle": {{-93.6, 42.0}, {-93.59, 42.0}, {-93.595, 42.01}},
		"hexagon": {
			{30, -1}, {30.01, -1}, {30.015, -0.99},
			{30.01, -0.98}, {30, -0.98}, {29.995, -0.99},
		},
	}
	for name, ring := range rings {
		got := RingArea(ring)
		if got <= 0 || math.IsInf(got, 0) || math.IsNaN(got) {
			t.Errorf("%s: RingArea = %f, want positive finite", name, got)
		}
	}
}

func TestRingArea_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		ring orb.Ring
	}{
		{"empty", orb.Ring{}},
		{"single point", orb.Ring{{1, 1}}},
		{"two points", orb.Ring{{1, 1}, {2, 2}}},
		{"all duplicates", orb.Ring{{5, 5}, {5, 5}, {5, 5}, {5, 5}}},
		{"two distinct closed", orb.Ring{{1, 1}, {2, 2}, {1, 1}}},
		{"bowtie", orb.Ring{{0, 0}, {1, 1}, {1, 0}, {0, 1}}},
	}
	for _, tc := range tests {
		if got := RingArea(tc.ring); got != 0 {
			t.Errorf("%s: RingArea = %f, want exactly 0", tc.name, got)
		}
	}
}

func TestFormatArea(t *testing.T) {
	tests := []struct {
		sqm  float64
		want string
	}{
		{0, "0.0 m²"},
		{42.24, "42.2 m²"},
		{9999.9, "9999.9 m²"},
		{10000, "1.00 ha"},
		{12345, "1.23 ha"},
		{250000, "25.00 ha"},
	}
	for _, tc := range tests {
		if got := FormatArea(tc.sqm); got != tc.want {
			t.Errorf("FormatArea(%f) = %q, want %q", tc.sqm, got, tc.want)
		}
	}
}
