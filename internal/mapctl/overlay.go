package mapctl

import (
	"log"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"fieldbound/internal/engine"
)

// Fixed ids for the reference overlay. This package is the sole owner
// of these ids in the engine's source/layer table.
const (
	OverlaySourceID = "parent-boundary"
	OverlayFillID   = "parent-boundary-fill"
	OverlayStrokeID = "parent-boundary-stroke"
)

const (
	overlayFillColor   = "#7aa2f7"
	overlayStrokeColor = "#c0caf5"

	overlayPollInterval = 100 * time.Millisecond
	overlayPollAttempts = 30

	overlayFitPadding = 2
)

// OverlayManager keeps the read-only parent boundary attached to the
// current style generation. The overlay is informational: when it
// cannot be attached the editor keeps working without it.
type OverlayManager struct {
	vp       *Viewport
	logf     func(string, ...any)
	interval time.Duration

	mu       sync.Mutex
	stop     chan struct{}
	fitDone  bool
	disposed bool
}

// NewOverlayManager returns a manager bound to the viewport.
func NewOverlayManager(vp *Viewport) *OverlayManager {
	return &OverlayManager{vp: vp, logf: log.Printf, interval: overlayPollInterval}
}

// Attach registers the parent geometry under the overlay's fixed ids
// once the style reports loaded, polling at a fixed interval with a
// bounded attempt budget. generation must be the style generation
// observed when the attach was requested: if a newer swap lands while
// the poll is waiting, the attempt aborts without touching the newer
// generation's layers. Exhausting the budget abandons the overlay
// silently. Idempotent: an already-attached overlay is left alone.
func (o *OverlayManager) Attach(ring orb.Ring, generation uint64) {
	if len(ring) == 0 {
		return
	}

	o.mu.Lock()
	if o.disposed {
		o.mu.Unlock()
		return
	}
	if o.stop != nil {
		close(o.stop) // only one attach sequence may be live
	}
	stop := make(chan struct{})
	o.stop = stop
	o.mu.Unlock()

	ring = append(orb.Ring(nil), ring...)
	go o.poll(ring, generation, stop)
}

func (o *OverlayManager) poll(ring orb.Ring, generation uint64, stop chan struct{}) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= overlayPollAttempts; attempt++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		select {
		case <-stop:
			return // stop and tick raced; stop wins
		default:
		}

		if o.vp.Generation() != generation {
			o.logf("overlay: attach for generation %d superseded", generation)
			return
		}
		h := o.vp.Handle()
		if h == nil {
			return
		}
		if !h.IsStyleLoaded() {
			continue
		}
		o.install(h, ring)
		return
	}
	o.logf("overlay: style never became ready, giving up after %d attempts", overlayPollAttempts)
}

func (o *OverlayManager) install(h engine.Handle, ring orb.Ring) {
	if h.HasSource(OverlaySourceID) {
		return // already attached under this generation
	}
	if err := h.AddSource(OverlaySourceID, orb.Polygon{ring}); err != nil {
		o.logf("overlay: add source: %v", err)
		return
	}
	if err := h.AddLayer(engine.Layer{
		ID: OverlayFillID, Type: engine.LayerFill, Source: OverlaySourceID, Color: overlayFillColor,
	}); err != nil {
		o.logf("overlay: add fill layer: %v", err)
		return
	}
	if err := h.AddLayer(engine.Layer{
		ID: OverlayStrokeID, Type: engine.LayerLine, Source: OverlaySourceID, Color: overlayStrokeColor,
	}); err != nil {
		o.logf("overlay: add stroke layer: %v", err)
		return
	}

	o.mu.Lock()
	fit := !o.fitDone
	o.fitDone = true // one camera fit per component lifetime, style swaps never reset it
	o.mu.Unlock()

	if fit {
		h.FitBounds(ring.Bound(), engine.FitOptions{Padding: overlayFitPadding})
	}
}

// Detach removes the overlay from the engine: stroke, then fill, then
// source, since a layer must go before the source it reads. Every
// removal tolerates the engine having already discarded the target
// during a style swap.
func (o *OverlayManager) Detach() {
	h := o.vp.Handle()
	if h == nil {
		return
	}
	_ = h.RemoveLayer(OverlayStrokeID)
	_ = h.RemoveLayer(OverlayFillID)
	_ = h.RemoveSource(OverlaySourceID)
}

// Dispose stops any in-flight attach poll. The manager ignores Attach
// afterwards.
func (o *OverlayManager) Dispose() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disposed {
		return
	}
	o.disposed = true
	if o.stop != nil {
		close(o.stop)
		o.stop = nil
	}
}
