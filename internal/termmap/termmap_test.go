package termmap

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"fieldbound/internal/engine"
	"fieldbound/internal/style"
)

func testEngine() *Engine {
	return &Engine{LoadDelay: 5 * time.Millisecond, SettleDelay: 5 * time.Millisecond}
}

func testParams() engine.Params {
	return engine.Params{
		Width:       40,
		Height:      12,
		Style:       style.Street(),
		Center:      orb.Point{-93.62, 42.03},
		Zoom:        13,
		Interactive: true,
	}
}

func mustInit(t *testing.T, e *Engine, p engine.Params) *Handle {
	t.Helper()
	h, err := e.Init(p)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(h.Remove)
	return h.(*Handle)
}

func waitFor(t *testing.T, d time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestInit_RejectsEmptyContainer(t *testing.T) {
	p := testParams()
	p.Width = 0
	if _, err := testEngine().Init(p); err == nil {
		t.Fatal("Init accepted a zero-width container")
	}
}

func TestInit_FiresLoadAndReportsStyleLoaded(t *testing.T) {
	e := testEngine()
	h := mustInit(t, e, testParams())

	var loads atomic.Int32
	off := h.On(engine.EventLoad, func(error) { loads.Add(1) })
	defer off()

	waitFor(t, time.Second, "load event", func() bool { return loads.Load() == 1 })
	if !h.IsStyleLoaded() {
		t.Fatal("IsStyleLoaded = false after load")
	}
}

func TestSetStyle_DiscardsEverythingThenSettles(t *testing.T) {
	e := testEngine()
	h := mustInit(t, e, testParams())
	waitFor(t, time.Second, "initial load", h.IsStyleLoaded)

	if err := h.AddSource("s", orb.Point{0, 0}); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if err := h.AddLayer(engine.Layer{ID: "l", Type: engine.LayerLine, Source: "s"}); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}

	var idles atomic.Int32
	off := h.On(engine.EventIdle, func(error) { idles.Add(1) })
	defer off()

	h.SetStyle(style.Satellite())
	if h.IsStyleLoaded() {
		t.Fatal("IsStyleLoaded = true immediately after SetStyle")
	}
	if h.HasSource("s") || h.HasLayer("l") {
		t.Fatal("SetStyle kept prior sources/layers")
	}

	waitFor(t, time.Second, "idle after swap", func() bool { return idles.Load() >= 1 })
	if !h.IsStyleLoaded() {
		t.Fatal("IsStyleLoaded = false after settle")
	}
}

func TestSourceLayerTableSemantics(t *testing.T) {
	h := mustInit(t, testEngine(), testParams())

	if err := h.AddSource("s", orb.Point{0, 0}); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if err := h.AddSource("s", orb.Point{0, 0}); err == nil {
		t.Fatal("duplicate AddSource succeeded")
	}
	if err := h.AddLayer(engine.Layer{ID: "l", Type: engine.LayerFill, Source: "missing"}); err == nil {
		t.Fatal("AddLayer with unknown source succeeded")
	}
	if err := h.AddLayer(engine.Layer{ID: "l", Type: engine.LayerFill, Source: "s"}); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	if err := h.RemoveSource("s"); err == nil {
		t.Fatal("RemoveSource succeeded while a layer still uses it")
	}
	if err := h.RemoveLayer("l"); err != nil {
		t.Fatalf("RemoveLayer: %v", err)
	}
	if err := h.RemoveLayer("l"); err == nil {
		t.Fatal("RemoveLayer of absent layer succeeded")
	}
	if err := h.RemoveSource("s"); err != nil {
		t.Fatalf("RemoveSource: %v", err)
	}
	if err := h.RemoveSource("s"); err == nil {
		t.Fatal("RemoveSource of absent source succeeded")
	}
}

func TestRemove_IsIdempotentAndSilencesEvents(t *testing.T) {
	e := &Engine{LoadDelay: 20 * time.Millisecond, SettleDelay: 20 * time.Millisecond}
	h := mustInit(t, e, testParams())

	var events atomic.Int32
	h.On(engine.EventLoad, func(error) { events.Add(1) })
	h.On(engine.EventIdle, func(error) { events.Add(1) })

	h.Remove()
	h.Remove()

	time.Sleep(60 * time.Millisecond)
	if got := events.Load(); got != 0 {
		t.Fatalf("events after Remove = %d, want 0", got)
	}
}

func TestFitBounds_CentersAndZoomsToBound(t *testing.T) {
	h := mustInit(t, testEngine(), testParams())

	b := orb.Bound{Min: orb.Point{-93.63, 42.02}, Max: orb.Point{-93.61, 42.04}}
	h.FitBounds(b, engine.FitOptions{Padding: 2})

	c := h.Center()
	want := b.Center()
	if c[0] != want[0] || c[1] != want[1] {
		t.Fatalf("center = %v, want %v", c, want)
	}
	z := h.Zoom()
	if z <= 0 || z > maxFitZoom {
		t.Fatalf("zoom = %f, want within (0, %d]", z, maxFitZoom)
	}

	// The bound's corners must project inside the viewport.
	p := projection{center: c, zoom: z, wMic: 40 * 2, hMic: 12 * 4}
	for _, corner := range []orb.Point{b.Min, b.Max, {b.Min[0], b.Max[1]}, {b.Max[0], b.Min[1]}} {
		x, y := p.point(corner)
		if x < 0 || x >= 80 || y < 0 || y >= 48 {
			t.Fatalf("corner %v projected to (%d,%d), outside 80x48 microgrid", corner, x, y)
		}
	}
}

func TestRender_DrawsPolygonAndCrosshair(t *testing.T) {
	h := mustInit(t, testEngine(), testParams())

	ring := orb.Ring{{-93.63, 42.02}, {-93.61, 42.02}, {-93.61, 42.04}, {-93.63, 42.04}}
	h.FitBounds(ring.Bound(), engine.FitOptions{Padding: 2})
	if err := h.AddSource("boundary", orb.Polygon{ring}); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if err := h.AddLayer(engine.Layer{ID: "fill", Type: engine.LayerFill, Source: "boundary"}); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}

	out := h.Render()
	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("rendered %d lines, want 12", len(lines))
	}
	for i, line := range lines {
		if got := len([]rune(line)); got != 40 {
			t.Fatalf("line %d is %d runes wide, want 40", i, got)
		}
	}
	if !strings.ContainsRune(out, '+') {
		t.Fatal("crosshair missing from interactive surface")
	}
	var braille bool
	for _, r := range out {
		if r >= 0x2800 && r <= 0x28FF {
			braille = true
			break
		}
	}
	if !braille {
		t.Fatal("no braille pixels rendered for the filled polygon")
	}
}
