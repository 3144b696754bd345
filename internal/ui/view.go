package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fieldbound/internal/draw"
	"fieldbound/internal/geo"
)

const logPaneLines = 4

// renderMain renders the full UI: header, framed map, status footer,
// and the event log pane.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderMapPane())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())

	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("FIELDBOUND")
	sub := styles.MutedText.Render("block boundary editor")

	line := title + "  " + sub
	if m.readOnly {
		line += "  " + styles.Badge.Render("READ ONLY")
	}
	return styles.Header.Width(m.width).Render(line)
}

// renderMapPane draws the framed map pane, or the startup error when
// the engine never came up.
func (m Model) renderMapPane() string {
	styles := m.theme.Styles()

	frameW := m.width - 2
	frameH := m.height - 3 - logPaneLines - 2
	if frameW < 10 {
		frameW = 10
	}
	if frameH < 3 {
		frameH = 3
	}

	frame := styles.MapFrame
	if m.vp != nil && m.vp.Ready() {
		frame = styles.MapFrameFocus
	}

	if m.vp != nil && m.vp.Err() != nil {
		msg := styles.DangerText.Render("map failed to start") + "\n\n" +
			styles.MutedText.Render(m.vp.Err().Error()) + "\n\n" +
			styles.Text.Render("press r to retry")
		return frame.Width(frameW).Height(frameH).Render(
			lipgloss.Place(frameW, frameH, lipgloss.Center, lipgloss.Center, msg))
	}

	if m.renderMap == nil {
		return frame.Width(frameW).Height(frameH).Render("")
	}
	return frame.Render(m.renderMap(frameW, frameH))
}

// renderStatus draws the footer: session state, area, basemap, and the
// hints for whichever actions are currently legal.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{
		styles.AccentText.Render(snap.Session.String()),
	}

	if snap.HasBoundary {
		parts = append(parts, styles.SuccessText.Render(geo.FormatArea(snap.AreaSquareMeters)))
	}

	if snap.StyleID != "" {
		parts = append(parts, styles.MutedText.Render(
			fmt.Sprintf("basemap %s (gen %d)", snap.StyleID, snap.Generation)))
	}

	parts = append(parts, styles.MutedText.Render(m.statusHint()))

	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  |  "))
}

func (m Model) statusHint() string {
	if m.vp != nil && m.vp.Err() != nil {
		return "r retry  q quit  ? help"
	}
	if m.readOnly {
		return "arrows pan  +/- zoom  s basemap  ? help"
	}
	switch m.snapshot.Session {
	case draw.Drawing:
		return "enter place  backspace undo  c close  esc cancel"
	case draw.Placed:
		return "e edit  x delete  d redraw  ? help"
	case draw.Editing:
		return "tab vertex  arrows nudge  x delete  esc done"
	default:
		return "d draw  arrows pan  +/- zoom  s basemap  ? help"
	}
}

// renderEvents draws the tail of the event log.
func (m Model) renderEvents() string {
	styles := m.theme.Styles()

	var lines []string
	if m.events != nil {
		lines = m.events.Lines()
	}
	if len(lines) > logPaneLines {
		lines = lines[len(lines)-logPaneLines:]
	}

	var b strings.Builder
	for i := 0; i < logPaneLines; i++ {
		if i < len(lines) {
			b.WriteString(styles.MutedText.Render(truncate(lines[i], m.width)))
		}
		if i < logPaneLines-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return s[:width-1] + "…"
}
