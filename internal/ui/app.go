// Package ui provides the Bubble Tea-based terminal frontend for the
// boundary editor.
package ui

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"fieldbound/internal/draw"
	"fieldbound/internal/eventlog"
	"fieldbound/internal/mapctl"
	"fieldbound/internal/prefs"
	"fieldbound/internal/state"
	"fieldbound/internal/style"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Viewport  *mapctl.Viewport
	Session   *draw.Session
	Kit       Toolkit
	Store     *state.Store
	Events    *eventlog.Log
	RenderMap func(width, height int) string
	// Retry reinitializes the map after a failed startup. The app layer
	// supplies it so the toolkit can be rebound to the fresh surface.
	Retry     func() error
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	ReadOnly  bool
}

// Toolkit is the slice of the drawing toolkit the UI drives directly.
type Toolkit interface {
	PlaceVertex(p orb.Point)
	UndoVertex()
	PendingCount() int
	CloseRing()
	SelectNextVertex()
	SelectedVertex() (int, orb.Point)
	NudgeVertex(dLon, dLat float64)
	ChangeMode(mode draw.Mode, featureID string)
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	vp        *mapctl.Viewport
	session   *draw.Session
	kit       Toolkit
	store     *state.Store
	events    *eventlog.Log
	renderMap func(width, height int) string
	retry     func() error
	prefsPath string
	pollTick  time.Duration
	readOnly  bool

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = 100 * time.Millisecond
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Prairie"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:       ctx,
		vp:        opts.Viewport,
		session:   opts.Session,
		kit:       opts.Kit,
		store:     opts.Store,
		events:    opts.Events,
		renderMap: opts.RenderMap,
		retry:     opts.Retry,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		readOnly:  opts.ReadOnly,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		m.handleRetry()
		return m, fetchSnapshotCmd(m.store)

	case key.Matches(msg, m.keys.Style):
		m.handleStyleToggle()
		return m, nil

	case key.Matches(msg, m.keys.ZoomIn):
		m.adjustZoom(1)
		return m, nil

	case key.Matches(msg, m.keys.ZoomOut):
		m.adjustZoom(-1)
		return m, nil

	case key.Matches(msg, m.keys.Pan):
		m.handleArrow(msg.String())
		return m, nil
	}

	if m.readOnly {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Draw):
		m.session.StartDraw()

	case key.Matches(msg, m.keys.PlaceVertex):
		if m.session.State() == draw.Drawing {
			m.kit.PlaceVertex(m.vp.Center())
		}

	case key.Matches(msg, m.keys.UndoVertex):
		if m.session.State() == draw.Drawing {
			m.kit.UndoVertex()
		}

	case key.Matches(msg, m.keys.CloseRing):
		if m.session.State() == draw.Drawing {
			m.kit.CloseRing()
		}

	case key.Matches(msg, m.keys.Edit):
		m.session.StartEdit()

	case key.Matches(msg, m.keys.NextVertex):
		if m.session.State() == draw.Editing {
			m.kit.SelectNextVertex()
		}

	case key.Matches(msg, m.keys.Delete):
		m.session.Delete()

	case key.Matches(msg, m.keys.Escape):
		switch m.session.State() {
		case draw.Drawing:
			m.session.CancelDraw()
		case draw.Editing:
			m.kit.ChangeMode(draw.ModeSimpleSelect, "")
		}
	}

	if m.store != nil && m.session != nil {
		m.store.SetSession(m.session.State())
	}
	return m, fetchSnapshotCmd(m.store)
}

// handleArrow pans the camera, or nudges the selected vertex while
// editing.
func (m *Model) handleArrow(name string) {
	if m.vp == nil || m.vp.Handle() == nil {
		return
	}

	step := panStep(m.vp.Zoom())
	var dLon, dLat float64
	switch name {
	case "up":
		dLat = step / 2
	case "down":
		dLat = -step / 2
	case "left":
		dLon = -step
	case "right":
		dLon = step
	}

	if !m.readOnly && m.session != nil && m.session.State() == draw.Editing {
		m.kit.NudgeVertex(dLon/4, dLat/4)
		return
	}

	h := m.vp.Handle()
	c := h.Center()
	h.SetCenter(orb.Point{c[0] + dLon, c[1] + dLat})
}

func (m *Model) adjustZoom(delta float64) {
	if m.vp == nil || m.vp.Handle() == nil {
		return
	}
	h := m.vp.Handle()
	h.SetZoom(h.Zoom() + delta)
}

func (m *Model) handleStyleToggle() {
	if m.vp == nil || !m.vp.Ready() {
		return
	}
	next := style.Next(m.vp.StyleID())
	if err := m.vp.SetStyle(next); err != nil && m.events != nil {
		m.events.Appendf("style swap failed: %v", err)
		return
	}
	m.savePrefs()
}

func (m *Model) handleRetry() {
	if m.vp == nil || m.vp.Err() == nil || m.retry == nil {
		return
	}
	if err := m.retry(); err != nil && m.events != nil {
		m.events.Appendf("map retry failed: %v", err)
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name}
	if m.vp != nil {
		p.Style = m.vp.StyleID()
	}
	_ = prefs.Save(m.prefsPath, p)
}

// handleTick processes the render tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return m, tea.Batch(cmds...)
}

// panStep returns the camera pan increment in degrees of longitude,
// a tenth of the viewport span at the current zoom.
func panStep(zoom float64) float64 {
	return 360 / math.Pow(2, zoom) / 10
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
