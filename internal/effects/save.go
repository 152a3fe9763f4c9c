package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

// Save fills a floppy disk from the bottom up and stamps a tick on it.
type Save struct {
	timeline
}

func NewSave(d time.Duration) *Save {
	return &Save{timeline: newTimeline(d, 1200*time.Millisecond)}
}

func (s *Save) Update(dt time.Duration) bool { return s.advance(dt) }

func (s *Save) Render(c *braille.Canvas) {
	p := s.progress()
	size := int(0.7 * math.Min(float64(c.DotWidth()), float64(c.DotHeight())))
	if size < 8 {
		size = 8
	}
	x := (c.DotWidth() - size) / 2
	y := (c.DotHeight() - size) / 2

	body := braille.RGB(70, 130, 220)
	metal := braille.RGB(200, 200, 210)

	outline(c, x, y, size, size, body)
	// Shutter.
	sw := size / 2
	outline(c, x+(size-sw)/2, y, sw, size/3, metal)
	c.DrawLineColor(x+size/2+sw/6, y+1, x+size/2+sw/6, y+size/3-2, metal)

	// Label fills as the write progresses.
	lx, ly := x+size/6, y+size/2
	lw, lh := size-size/3, size/2-2
	fill := int(math.Round(p / 0.7 * float64(lh)))
	if fill > lh {
		fill = lh
	}
	outline(c, lx, ly, lw, lh, braille.White)
	rect(c, lx+1, ly+lh-fill, lw-2, fill-1, braille.RGB(120, 220, 255))

	if p >= 0.7 {
		glow := (p - 0.7) / 0.3
		checkmark(c, x+size/4, y+size/2, size/2, braille.RGB(0, 255, 0).Blend(braille.Gold, glow*0.3))
	}
}

func (s *Save) Name() string { return "save" }
