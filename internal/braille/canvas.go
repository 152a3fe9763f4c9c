package braille

import (
	"strings"
)

// Base is the code point of the empty Braille pattern.
const Base = 0x2800

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]uint8{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// dotOffsets is the inverse of pixelMap: bit index -> (dx, dy) inside a cell.
var dotOffsets = [8][2]int{
	{0, 0}, {0, 1}, {0, 2},
	{1, 0}, {1, 1}, {1, 2},
	{0, 3}, {1, 3},
}

// Canvas is a Width x Height grid of terminal cells backed by a
// (2*Width) x (4*Height) grid of dots.
type Canvas struct {
	Width, Height int

	patterns []uint8
	colors   []Color
	colored  []bool
}

func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{
		Width:    w,
		Height:   h,
		patterns: make([]uint8, w*h),
		colors:   make([]Color, w*h),
		colored:  make([]bool, w*h),
	}
}

// DotWidth is the horizontal resolution in dots.
func (c *Canvas) DotWidth() int { return c.Width * 2 }

// DotHeight is the vertical resolution in dots.
func (c *Canvas) DotHeight() int { return c.Height * 4 }

// locate maps a dot to its cell index and bit mask. ok is false when the
// dot lies outside the canvas.
func (c *Canvas) locate(x, y int) (idx int, mask uint8, ok bool) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return 0, 0, false
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}

	return row*c.Width + col, pixelMap[y%4][x%2], true
}

func (c *Canvas) cell(cx, cy int) (int, bool) {
	if cx < 0 || cy < 0 || cx >= c.Width || cy >= c.Height {
		return 0, false
	}
	return cy*c.Width + cx, true
}

// Set turns on the dot at (x, y) in dot coordinates. Dots outside the
// canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if idx, mask, ok := c.locate(x, y); ok {
		c.patterns[idx] |= mask
	}
}

// SetColor turns on the dot at (x, y) and makes col the color of the
// owning cell.
func (c *Canvas) SetColor(x, y int, col Color) {
	idx, mask, ok := c.locate(x, y)
	if !ok {
		return
	}
	c.patterns[idx] |= mask
	c.colors[idx] = col
	c.colored[idx] = true
}

// Unset clears a single dot. The cell color is left alone.
func (c *Canvas) Unset(x, y int) {
	if idx, mask, ok := c.locate(x, y); ok {
		c.patterns[idx] &^= mask
	}
}

// Get reports whether the dot at (x, y) is on.
func (c *Canvas) Get(x, y int) bool {
	idx, mask, ok := c.locate(x, y)
	return ok && c.patterns[idx]&mask != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	clear(c.patterns)
	clear(c.colors)
	clear(c.colored)
}

// DrawLine draws a monochrome line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	bresenham(x0, y0, x1, y1, c.Set)
}

// DrawLineColor draws a line in col. Every dot goes through SetColor, so
// the cells it crosses take col as their color.
func (c *Canvas) DrawLineColor(x0, y0, x1, y1 int, col Color) {
	bresenham(x0, y0, x1, y1, func(x, y int) { c.SetColor(x, y, col) })
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Pattern returns the raw dot byte of cell (cx, cy).
func (c *Canvas) Pattern(cx, cy int) uint8 {
	if idx, ok := c.cell(cx, cy); ok {
		return c.patterns[idx]
	}
	return 0
}

// Rune returns the Braille glyph of cell (cx, cy).
func (c *Canvas) Rune(cx, cy int) rune {
	return rune(Base + int(c.Pattern(cx, cy)))
}

// Color returns the color last written into cell (cx, cy).
func (c *Canvas) Color(cx, cy int) (Color, bool) {
	idx, ok := c.cell(cx, cy)
	if !ok || !c.colored[idx] {
		return Color{}, false
	}
	return c.colors[idx], true
}

// IsEmpty reports whether no dot of cell (cx, cy) is set.
func (c *Canvas) IsEmpty(cx, cy int) bool {
	return c.Pattern(cx, cy) == 0
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for cy := 0; cy < c.Height; cy++ {
		for cx := 0; cx < c.Width; cx++ {
			b.WriteRune(c.Rune(cx, cy))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
