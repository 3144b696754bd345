// Package app provides the orchestration layer for the fieldbound
// application.
//
// # Overview
//
// This package wires together configuration, the terminal rendering
// engine, the map controllers, the drawing session and the UI to create
// the complete boundary editor. It serves as the composition root where
// all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/fieldbound/config.toml
//  2. Load user preferences (theme, last basemap)
//  3. Read the optional farm and block boundary GeoJSON files
//  4. Create the terminal rendering engine and the viewport over it
//  5. Attach the overlay manager and the drawing toolkit
//  6. Start the TUI and block until user exits or context cancels
//
// # Data Flow
//
// The viewport's callbacks drive everything that reacts to engine
// lifecycle:
//
//   - OnReady attaches the farm boundary overlay at the current style
//     generation.
//   - OnStyleSwap records the new basemap in the store, restores the
//     toolkit's layers on the fresh style and reattaches the overlay
//     with the bumped generation.
//   - OnError appends to the event log; polling and drawing degrade
//     silently rather than crashing the editor.
//
// The drawing session's OnChange pushes the boundary and its geodesic
// area into the shared state.Store, which the UI snapshots at its
// refresh tick.
//
// # Error Handling
//
// Fatal errors (returned from Run) are limited to an unreadable or
// invalid configuration. A failed engine init is recoverable: the UI
// starts anyway, shows the error in the map pane, and offers a retry
// that rebuilds the surface and rebinds the toolkit to it. Boundary
// files that fail to load are reported in the event log and skipped.
package app
