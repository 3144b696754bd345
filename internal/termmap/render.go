package termmap

import (
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"fieldbound/internal/engine"
	"fieldbound/internal/style"
)

// Render draws the current layer table into a width×height rune grid:
// a style-dependent backdrop, then each layer in insertion order on a
// braille microgrid, then the crosshair for interactive surfaces.
func (h *Handle) Render() string {
	h.mu.Lock()
	width, height := h.width, h.height
	center, zoom := h.center, h.zoom
	def := h.def
	interactive := h.interactive
	layers := append([]engine.Layer(nil), h.layers...)
	sources := make(map[string]orb.Geometry, len(h.sources))
	for id, g := range h.sources {
		sources[id] = g
	}
	h.mu.Unlock()

	grid := backdrop(def, width, height)
	br := newBrailleBuf(width, height)
	proj := projection{center: center, zoom: zoom, wMic: width * 2, hMic: height * 4}

	for _, l := range layers {
		geom, ok := sources[l.Source]
		if !ok {
			continue
		}
		switch l.Type {
		case engine.LayerFill:
			for _, ring := range ringsOf(geom) {
				br.fillRing(proj.ring(ring))
			}
		case engine.LayerLine:
			for _, ring := range ringsOf(geom) {
				br.strokeRing(proj.ring(ring), true)
			}
			if ls, ok := geom.(orb.LineString); ok {
				br.strokeRing(proj.ring(orb.Ring(ls)), false)
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if r := br.rune(x, y); r != ' ' {
				grid[y][x] = r
			}
		}
	}

	if interactive {
		grid[height/2][width/2] = '+'
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		b.WriteString(string(grid[y]))
		if y < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// backdrop returns the base grid for the style: a faint graticule for
// the street map, a speckle texture for satellite imagery.
func backdrop(def style.Definition, width, height int) [][]rune {
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, width)
		for x := range grid[y] {
			grid[y][x] = ' '
			switch def.ID {
			case style.StreetID:
				if x%10 == 0 && y%5 == 0 {
					grid[y][x] = '·'
				}
			case style.SatelliteID:
				if (x*7+y*13)%17 == 0 {
					grid[y][x] = '░'
				}
			}
		}
	}
	return grid
}

func ringsOf(geom orb.Geometry) []orb.Ring {
	switch g := geom.(type) {
	case orb.Polygon:
		return g
	case orb.Ring:
		return []orb.Ring{g}
	case orb.MultiPolygon:
		var out []orb.Ring
		for _, p := range g {
			out = append(out, p...)
		}
		return out
	}
	return nil
}

// projection maps lon/lat onto the braille microgrid. Micro pixels are
// square: a cell is 2 micro wide and 4 tall, and terminal cells are
// twice as tall as wide.
type projection struct {
	center orb.Point
	zoom   float64
	wMic   int
	hMic   int
}

func (p projection) degPerMic() float64 {
	return 360 / math.Exp2(p.zoom) / float64(p.wMic)
}

func (p projection) point(pt orb.Point) (int, int) {
	d := p.degPerMic()
	x := float64(p.wMic)/2 + (pt[0]-p.center[0])/d
	y := float64(p.hMic)/2 - (pt[1]-p.center[1])/d
	return int(math.Round(x)), int(math.Round(y))
}

func (p projection) ring(r orb.Ring) [][2]int {
	out := make([][2]int, 0, len(r))
	for _, pt := range r {
		x, y := p.point(pt)
		out = append(out, [2]int{x, y})
	}
	return out
}

// brailleBuf accumulates micro pixels, 2x4 per cell, composed into
// braille runes.
type brailleBuf struct {
	w, h int // cells
	m    [][]uint8
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cx >= b.w || cy >= b.h {
		return
	}
	b.m[cy][cx] |= brailleBits[ry][rx]
}

func (b *brailleBuf) rune(x, y int) rune {
	mask := b.m[y][x]
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

// strokeRing draws the ring's edges, closing it when closed is set.
func (b *brailleBuf) strokeRing(pts [][2]int, closed bool) {
	if len(pts) < 2 {
		return
	}
	n := len(pts)
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		a := pts[i]
		c := pts[(i+1)%n]
		b.line(a[0], a[1], c[0], c[1])
	}
}

// line draws a clipped Bresenham segment on the microgrid.
func (b *brailleBuf) line(x0, y0, x1, y1 int) {
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, b.w*2-1, b.h*4-1)
	if !ok {
		return
	}
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillRing fills the ring with an even-odd scanline pass.
func (b *brailleBuf) fillRing(pts [][2]int) {
	if len(pts) < 3 {
		return
	}
	hMic := b.h * 4
	wMic := b.w * 2
	n := len(pts)
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for i := 0; i < n; i++ {
			a := pts[i]
			c := pts[(i+1)%n]
			if a[1] == c[1] {
				continue
			}
			if (yMic >= a[1] && yMic < c[1]) || (yMic >= c[1] && yMic < a[1]) {
				t := float64(yMic-a[1]) / float64(c[1]-a[1])
				xs = append(xs, a[0]+int(t*float64(c[0]-a[0])))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			start, end := xs[i], xs[i+1]
			if start < 0 {
				start = 0
			}
			if end > wMic-1 {
				end = wMic - 1
			}
			for x := start; x <= end; x++ {
				b.setPixel(x, yMic)
			}
		}
	}
}

// Cohen–Sutherland outcodes.
const (
	clipLeft   = 1
	clipRight  = 2
	clipBottom = 4
	clipTop    = 8
)

func outcode(x, y, xmax, ymax int) int {
	code := 0
	if x < 0 {
		code |= clipLeft
	} else if x > xmax {
		code |= clipRight
	}
	if y < 0 {
		code |= clipTop
	} else if y > ymax {
		code |= clipBottom
	}
	return code
}

// clipSegment clips the segment to [0,xmax]×[0,ymax] so distant
// geometry cannot turn one edge into a million Bresenham steps.
func clipSegment(x0, y0, x1, y1, xmax, ymax int) (int, int, int, int, bool) {
	c0 := outcode(x0, y0, xmax, ymax)
	c1 := outcode(x1, y1, xmax, ymax)
	for {
		if c0|c1 == 0 {
			return x0, y0, x1, y1, true
		}
		if c0&c1 != 0 {
			return 0, 0, 0, 0, false
		}
		out := c0
		if out == 0 {
			out = c1
		}
		var x, y int
		switch {
		case out&clipBottom != 0:
			x = x0 + (x1-x0)*(ymax-y0)/nonZero(y1-y0)
			y = ymax
		case out&clipTop != 0:
			x = x0 + (x1-x0)*(0-y0)/nonZero(y1-y0)
			y = 0
		case out&clipRight != 0:
			y = y0 + (y1-y0)*(xmax-x0)/nonZero(x1-x0)
			x = xmax
		default:
			y = y0 + (y1-y0)*(0-x0)/nonZero(x1-x0)
			x = 0
		}
		if out == c0 {
			x0, y0 = x, y
			c0 = outcode(x0, y0, xmax, ymax)
		} else {
			x1, y1 = x, y
			c1 = outcode(x1, y1, xmax, ymax)
		}
	}
}

func nonZero(v int) int {
	if v == 0 {
		return 1
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
