package app

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"fieldbound/internal/config"
	"fieldbound/internal/draw"
	"fieldbound/internal/drawkit"
	"fieldbound/internal/engine"
	"fieldbound/internal/eventlog"
	"fieldbound/internal/geo"
	"fieldbound/internal/mapctl"
	"fieldbound/internal/prefs"
	"fieldbound/internal/state"
	"fieldbound/internal/style"
	"fieldbound/internal/termmap"
	"fieldbound/internal/ui"
)

// Options configure the fieldbound application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/fieldbound/prefs.toml
}

const eventCapacity = 64

// Run boots the boundary editor TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	styleID := cfg.Style
	if _, ok := style.ByID(userPrefs.Style); ok {
		styleID = userPrefs.Style
	}
	styleDef, _ := style.ByID(styleID)

	events := eventlog.New(eventCapacity)
	store := &state.Store{}

	parentRing, err := LoadBoundary(cfg.FarmBoundaryPath)
	if err != nil {
		events.Appendf("farm boundary unavailable: %v", err)
	}
	blockRing, err := LoadBoundary(cfg.BlockBoundaryPath)
	if err != nil {
		events.Appendf("block boundary unavailable: %v", err)
	}

	params := engine.Params{
		Width:       80,
		Height:      24,
		Style:       styleDef,
		Center:      orb.Point{cfg.CenterLng, cfg.CenterLat},
		Zoom:        cfg.Zoom,
		Interactive: !cfg.ReadOnly,
		Controls:    engine.Controls{ShowDefaults: false},
	}

	// The callbacks close over the viewport, overlay manager and kit,
	// all created below.
	var (
		vp  *mapctl.Viewport
		ov  *mapctl.OverlayManager
		kit *drawkit.Kit
	)

	vp = mapctl.New(termmap.New(), params, mapctl.Callbacks{
		OnReady: func() {
			events.Appendf("map ready, basemap %s", vp.StyleID())
			if len(parentRing) > 0 {
				ov.Attach(parentRing, vp.Generation())
			}
		},
		OnError: func(err error) {
			events.Appendf("map error: %v", err)
		},
		OnStyleSwap: func(generation uint64) {
			store.SetStyle(vp.StyleID(), generation)
			events.Appendf("basemap now %s", vp.StyleID())
			kit.Resync()
			if len(parentRing) > 0 {
				ov.Attach(parentRing, generation)
			}
		},
	})
	ov = mapctl.NewOverlayManager(vp)

	// A failed init is recoverable from inside the UI via retry.
	if err := vp.Init(); err != nil {
		events.Appendf("map init failed: %v", err)
	}

	kit = drawkit.New(vp.Handle(), drawkit.Options{
		DisplayControlsDefault: false,
		EnabledControls:        []string{"polygon", "trash"},
	})

	session := draw.NewSession(kit, draw.Options{
		Initial:  blockRing,
		Disabled: cfg.ReadOnly,
		OnChange: func(ring orb.Ring, area float64) {
			store.SetBoundary(ring, area)
			if ring == nil {
				events.Appendf("boundary deleted")
			} else {
				events.Appendf("boundary %s", geo.FormatArea(area))
			}
		},
		Logf: events.Appendf,
	})
	defer func() {
		session.Dispose()
		ov.Dispose()
		vp.Teardown()
	}()

	store.SetStyle(styleID, vp.Generation())
	store.SetSession(session.State())
	if len(blockRing) > 0 {
		store.SetBoundary(blockRing, geo.RingArea(blockRing))
	}

	uiOpts := ui.Options{
		Context:  ctx,
		Viewport: vp,
		Session:  session,
		Kit:      kit,
		Store:    store,
		Events:   events,
		RenderMap: func(width, height int) string {
			h, ok := vp.Handle().(*termmap.Handle)
			if !ok {
				return ""
			}
			h.Resize(width, height)
			return h.Render()
		},
		Retry: func() error {
			if err := vp.Retry(); err != nil {
				return err
			}
			kit.Rebind(vp.Handle())
			return nil
		},
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		ReadOnly:  cfg.ReadOnly,
	}
	return ui.Run(uiOpts)
}
