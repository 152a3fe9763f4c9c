package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

// Merge draws a feature branch curving into main, then the joined line
// with a tick.
type Merge struct {
	timeline
}

func NewMerge(d time.Duration) *Merge {
	return &Merge{timeline: newTimeline(d, 1500*time.Millisecond)}
}

func (m *Merge) Update(dt time.Duration) bool { return m.advance(dt) }

func (m *Merge) Render(c *braille.Canvas) {
	w, h := float64(c.DotWidth()), float64(c.DotHeight())
	p := m.progress()

	trunk := braille.RGB(100, 200, 255)
	feature := braille.RGB(255, 180, 50)
	merged := braille.RGB(150, 255, 150)

	left := w * 0.15
	right := w * 0.85
	mainY := h * 0.6
	meet := w * 0.6

	if p < 0.7 {
		end := left + (right-left)*p/0.7
		thick(c, left, mainY, end, mainY, trunk)

		// Feature branch: leaves main, arcs above it and comes back at meet.
		fp := math.Min(p, 0.6) / 0.6
		fork := w * 0.3
		lift := h * 0.4
		prevX, prevY := fork, mainY
		for i := 1; i <= 60; i++ {
			t := float64(i) / 60
			if t > fp {
				break
			}
			x := fork + t*(meet-fork)
			y := mainY - math.Sin(t*math.Pi)*lift
			thick(c, prevX, prevY, x, y, feature)
			prevX, prevY = x, y
		}

		if p > 0.5 {
			r := int(math.Min((p-0.5)/0.2, 1) * 6)
			mergeRing(c, int(meet), int(mainY), r, merged)
		}
		return
	}

	glow := (p - 0.7) / 0.3
	col := merged.Blend(braille.White, 0.3*math.Sin(glow*math.Pi))
	for dy := -1.0; dy <= 1; dy++ {
		thick(c, left, mainY+dy, right, mainY+dy, col)
	}
	size := int(math.Max(h*0.25, 4))
	checkmark(c, int(right)+3, int(mainY)-size/3, size, braille.Green)
}

func (m *Merge) Name() string { return "merge" }

func thick(c *braille.Canvas, x0, y0, x1, y1 float64, col braille.Color) {
	c.DrawLineColor(int(x0), int(y0), int(x1), int(y1), col)
	c.DrawLineColor(int(x0), int(y0)+1, int(x1), int(y1)+1, col)
}

func mergeRing(c *braille.Canvas, cx, cy, r int, col braille.Color) {
	if r <= 0 {
		c.SetColor(cx, cy, col)
		return
	}
	steps := 8 * r
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		c.SetColor(cx+int(math.Round(math.Cos(a)*float64(r))), cy+int(math.Round(math.Sin(a)*float64(r))), col)
	}
}
