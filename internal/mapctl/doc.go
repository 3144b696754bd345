// Package mapctl owns the rendering-engine handle: viewport lifecycle,
// base-style transitions and the read-only reference overlay.
//
// # Overview
//
// Three concerns live here because they share one piece of state, the
// style generation counter:
//
//   - Viewport (viewport.go): creates and tears down the rendering
//     surface, surfaces init failures as a recoverable error state with
//     a full-re-create Retry, and exposes camera access.
//   - Style transitions (transition.go): sequence a wholesale style
//     swap with one suspension point — capture camera, replace style,
//     wait for the engine's settle signal, restore camera, bump the
//     generation.
//   - OverlayManager (overlay.go): attaches the parent boundary under
//     fixed source/layer ids once the new style reports loaded, via a
//     bounded fixed-interval poll.
//
// # Style generations
//
// The generation is a monotonic counter bumped exactly once per
// completed swap. Asynchronous work captures the generation it was
// requested under and compares it at its resumption point; a mismatch
// means a newer swap superseded the work and it must abort without
// touching the engine. This is the only coordination between the
// transition sequencer and the overlay manager — the settle signal
// itself is not shared, because its ordering relative to the layer API
// becoming callable is not guaranteed under rapid consecutive swaps.
//
// # Degraded modes
//
// The overlay is informational. When the readiness poll exhausts its
// budget (30 attempts at 100 ms) the overlay is abandoned silently and
// the editor keeps working without it; there is no retry on the next
// style change. Engine init failure is the opposite: it is surfaced to
// the host, and Retry re-creates the surface from nothing since partial
// engine state after a failed init is untrustworthy.
//
// # Cleanup
//
// Viewport.Teardown and OverlayManager.Dispose remove listeners and
// stop poll timers deterministically; both are safe to call more than
// once. Removal order is always dependents before dependencies (layers
// before their source), and every removal tolerates the engine having
// already discarded the target during a swap.
package mapctl
