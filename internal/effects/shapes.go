package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

// Simulated field that particle effects are laid out in. It is scaled onto
// the canvas at render time.
const (
	fieldW = 300.0
	fieldH = 250.0
)

// timeline tracks progress through a fixed-length effect.
type timeline struct {
	elapsed time.Duration
	total   time.Duration
}

func newTimeline(d, def time.Duration) timeline {
	if d <= 0 {
		d = def
	}
	return timeline{total: d}
}

func (t *timeline) advance(dt time.Duration) bool {
	t.elapsed += dt
	return t.elapsed < t.total
}

// progress is elapsed/total clamped to [0, 1].
func (t *timeline) progress() float64 {
	if t.total <= 0 {
		return 1
	}
	return math.Min(t.elapsed.Seconds()/t.total.Seconds(), 1)
}

func (t *timeline) Duration() (time.Duration, bool) { return t.total, true }

// project maps a field coordinate onto canvas dots.
func project(c *braille.Canvas, x, y float64) (int, int) {
	px := x / fieldW * float64(c.DotWidth())
	py := y / fieldH * float64(c.DotHeight())
	return int(math.Floor(px)), int(math.Floor(py))
}

func plot(c *braille.Canvas, x, y float64, col braille.Color) {
	c.SetColor(int(math.Floor(x)), int(math.Floor(y)), col)
}

func disc(c *braille.Canvas, cx, cy, r int, col braille.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.SetColor(cx+dx, cy+dy, col)
			}
		}
	}
}

// ellipse fills an axis-aligned ellipse with radii rx and ry.
func ellipse(c *braille.Canvas, cx, cy, rx, ry int, col braille.Color) {
	if rx <= 0 || ry <= 0 {
		c.SetColor(cx, cy, col)
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			fx, fy := float64(dx)/float64(rx), float64(dy)/float64(ry)
			if fx*fx+fy*fy <= 1 {
				c.SetColor(cx+dx, cy+dy, col)
			}
		}
	}
}

// ring draws the circumference of a circle of radius r.
func ring(c *braille.Canvas, cx, cy, r int, col braille.Color) {
	steps := max(8, r*8)
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		plot(c, float64(cx)+math.Cos(a)*float64(r), float64(cy)+math.Sin(a)*float64(r), col)
	}
}

func rect(c *braille.Canvas, x, y, w, h int, col braille.Color) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			c.SetColor(x+dx, y+dy, col)
		}
	}
}

func outline(c *braille.Canvas, x, y, w, h int, col braille.Color) {
	c.DrawLineColor(x, y, x+w-1, y, col)
	c.DrawLineColor(x, y+h-1, x+w-1, y+h-1, col)
	c.DrawLineColor(x, y, x, y+h-1, col)
	c.DrawLineColor(x+w-1, y, x+w-1, y+h-1, col)
}

// star draws a five-pointed star of radius r centred on (cx, cy).
func star(c *braille.Canvas, cx, cy, r int, col braille.Color) {
	for p := 0; p < 5; p++ {
		a := float64(p)*72*math.Pi/180 - math.Pi/2
		ex := cx + int(math.Round(math.Cos(a)*float64(r)))
		ey := cy + int(math.Round(math.Sin(a)*float64(r)))
		c.DrawLineColor(cx, cy, ex, ey, col)
	}
}

// checkmark draws a tick whose short stroke starts at (x, y).
func checkmark(c *braille.Canvas, x, y, size int, col braille.Color) {
	short := size / 3
	c.DrawLineColor(x, y, x+short, y+short, col)
	c.DrawLineColor(x+short, y+short, x+size, y+short-size+size/3, col)
}

// noise is a stateless hash of i onto [0, 1). Effects use it so that a
// given frame always renders the same way.
func noise(i int) float64 {
	z := uint64(i) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return float64(z>>11) / float64(1<<53)
}

func dim(col braille.Color, alpha float64) braille.Color {
	alpha = math.Max(0, math.Min(1, alpha))
	return braille.RGB(
		uint8(float64(col.R)*alpha),
		uint8(float64(col.G)*alpha),
		uint8(float64(col.B)*alpha),
	)
}
