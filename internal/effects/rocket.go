package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

// Rocket launches from the bottom of the canvas through a star field.
type Rocket struct {
	timeline
}

func NewRocket(d time.Duration) *Rocket {
	return &Rocket{timeline: newTimeline(d, 1500*time.Millisecond)}
}

func (r *Rocket) Update(dt time.Duration) bool { return r.advance(dt) }

func (r *Rocket) Render(c *braille.Canvas) {
	w, h := c.DotWidth(), c.DotHeight()
	p := r.progress()
	t := r.elapsed.Seconds()

	for i := 0; i < 40; i++ {
		sx := int(noise(i) * float64(w))
		// Stars stream downward to sell the climb.
		sy := int(math.Mod(noise(i+1000)*float64(h)+t*float64(h)*0.6, float64(h)))
		twinkle := 0.5 + 0.5*math.Sin(t*8+float64(i))
		c.SetColor(sx, sy, dim(braille.White, 0.4+0.6*twinkle))
	}

	bodyH := max(h/3, 12)
	bodyW := max(bodyH/3, 4)
	cx := w / 2
	// Ease in: slow lift-off, then accelerate out of frame.
	top := int(float64(h) - p*p*float64(h+bodyH+bodyW))

	hull := braille.RGB(220, 220, 230)
	nose := braille.Red
	window := braille.RGB(100, 200, 255)

	rect(c, cx-bodyW/2, top, bodyW, bodyH, hull)
	for i := 0; i < bodyW/2+1; i++ {
		c.DrawLineColor(cx-bodyW/2+i, top-1-i, cx+bodyW/2-i-1+bodyW%2, top-1-i, nose)
	}
	disc(c, cx, top+bodyH/3, max(bodyW/4, 1), window)

	// Fins.
	fin := bodyW / 2
	c.DrawLineColor(cx-bodyW/2, top+bodyH-fin, cx-bodyW/2-fin, top+bodyH, nose)
	c.DrawLineColor(cx+bodyW/2, top+bodyH-fin, cx+bodyW/2+fin, top+bodyH, nose)

	// Flicker the exhaust between frames.
	flame := bodyH/2 + int(math.Round(math.Sin(t*40)*2))
	for i := 0; i < flame; i++ {
		f := float64(i) / float64(max(flame, 1))
		col := braille.Yellow.Blend(braille.Red, f)
		spread := int(float64(bodyW) / 2 * (1 - f))
		c.DrawLineColor(cx-spread, top+bodyH+i, cx+spread, top+bodyH+i, col)
	}
}

func (r *Rocket) Name() string { return "rocket" }
