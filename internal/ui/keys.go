package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the editor.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Camera
	Pan     key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Style   key.Binding
	Retry   key.Binding

	// Drawing
	Draw        key.Binding
	PlaceVertex key.Binding
	UndoVertex  key.Binding
	CloseRing   key.Binding

	// Editing
	Edit       key.Binding
	NextVertex key.Binding
	Delete     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel draw / finish edit"),
		),

		// Camera
		Pan: key.NewBinding(
			key.WithKeys("up", "down", "left", "right"),
			key.WithHelp("arrows", "Pan map / nudge vertex"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Zoom out"),
		),
		Style: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Toggle basemap"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Retry map init"),
		),

		// Drawing
		Draw: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Draw boundary"),
		),
		PlaceVertex: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Place vertex at crosshair"),
		),
		UndoVertex: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "Undo last vertex"),
		),
		CloseRing: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Close ring"),
		),

		// Editing
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit boundary"),
		),
		NextVertex: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Select next vertex"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete boundary"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pan, k.ZoomIn, k.ZoomOut, k.Style, k.Retry},
		{k.Draw, k.PlaceVertex, k.UndoVertex, k.CloseRing},
		{k.Edit, k.NextVertex, k.Delete, k.Escape},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
