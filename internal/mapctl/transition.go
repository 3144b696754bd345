package mapctl

import (
	"fmt"

	"github.com/paulmach/orb"

	"fieldbound/internal/engine"
	"fieldbound/internal/style"
)

// styleSwap is one in-flight style transition: the camera captured
// before the swap and the one-shot settle listener waiting to restore
// it. A newer swap supersedes the previous one wholesale.
type styleSwap struct {
	center orb.Point
	zoom   float64
	off    func()
}

// SetStyle replaces the base style wholesale and restores the captured
// camera once the engine reports settled. Each completed swap bumps the
// style generation exactly once.
//
// The settle signal drives only the camera restore and generation bump.
// Overlay reattachment deliberately does not ride on it: the relative
// order between the settle event and the layer API becoming callable is
// not guaranteed under rapid consecutive swaps, so the overlay manager
// polls its own readiness predicate instead.
func (v *Viewport) SetStyle(id string) error {
	def, ok := style.ByID(id)
	if !ok {
		return fmt.Errorf("unknown style %q", id)
	}

	v.mu.Lock()
	h := v.handle
	if h == nil {
		v.mu.Unlock()
		return fmt.Errorf("viewport not initialized")
	}
	var prevOff func()
	if v.pending != nil {
		prevOff = v.pending.off
	}
	sw := &styleSwap{center: h.Center(), zoom: h.Zoom()}
	v.pending = sw
	v.styleID = id
	v.mu.Unlock()

	if prevOff != nil {
		prevOff()
	}

	h.SetStyle(def)
	off := h.On(engine.EventIdle, func(error) {
		v.settle(sw, h)
	})

	v.mu.Lock()
	if v.pending == sw {
		sw.off = off
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()
	off() // superseded or torn down before we could record the listener
	return nil
}

// settle finishes a swap: restore the captured camera, then bump the
// generation. Stale swaps (superseded or after teardown) are dropped.
func (v *Viewport) settle(sw *styleSwap, h engine.Handle) {
	v.mu.Lock()
	if v.pending != sw || v.handle != h {
		v.mu.Unlock()
		return
	}
	v.pending = nil
	off := sw.off
	v.mu.Unlock()

	if off != nil {
		off()
	}

	h.SetCenter(sw.center)
	h.SetZoom(sw.zoom)

	v.mu.Lock()
	v.gen++
	gen := v.gen
	cb := v.cbs.OnStyleSwap
	v.mu.Unlock()

	if cb != nil {
		cb(gen)
	}
}
