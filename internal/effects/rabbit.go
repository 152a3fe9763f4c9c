package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

// Rabbit hops across the screen clutching a pocket watch.
type Rabbit struct {
	timeline
}

func NewRabbit(d time.Duration) *Rabbit {
	return &Rabbit{timeline: newTimeline(d, 2*time.Second)}
}

func (r *Rabbit) Update(dt time.Duration) bool { return r.advance(dt) }

func (r *Rabbit) Render(c *braille.Canvas) {
	p := r.progress()
	w, h := float64(c.DotWidth()), float64(c.DotHeight())

	unit := math.Max(3, math.Min(w, h)*0.12)
	ground := int(h * 0.85)
	for x := 0; x < c.DotWidth(); x += 3 {
		c.SetColor(x, ground, dim(braille.Green, 0.6))
	}

	x := int(p*1.2*w - 0.1*w)
	maxHop := math.Max(1, h*0.3)
	hop := math.Abs(math.Sin(p*10)) * maxHop
	rx, ry := int(unit*1.4), int(unit)
	y := ground - ry - 1 - int(hop)

	ellipse(c, x, y, rx, ry, braille.White)
	disc(c, x-rx, y-ry/3, max(1, ry/3), braille.White)

	headR := max(2, int(unit*0.7))
	hx, hy := x+rx, y-ry
	disc(c, hx, hy, headR, braille.White)
	c.Unset(hx+headR/2, hy-headR/3)

	// Ears lean back while airborne.
	lean := int(hop / maxHop * 3)
	earH := int(unit * 1.6)
	for i, ex := range []int{hx - headR/2, hx + headR/3} {
		tipX := ex - lean - i
		c.DrawLineColor(ex, hy-headR, tipX, hy-headR-earH, braille.White)
		c.DrawLineColor(ex+1, hy-headR, tipX+1, hy-headR-earH, braille.White)
		c.DrawLineColor(ex, hy-headR-1, tipX, hy-headR-earH+2, braille.Pink)
	}

	// Legs tuck in mid-air.
	leg := int(unit * 0.8 * (1 - hop/maxHop))
	c.DrawLineColor(x-rx/2, y+ry, x-rx/2-leg, y+ry+max(1, leg/2), braille.White)
	c.DrawLineColor(x+rx/2, y+ry, x+rx/2+leg/2, y+ry+max(1, leg/2), braille.White)

	if p < 0.8 {
		wr := max(2, int(unit*0.5))
		wx, wy := hx+headR+wr+1, y
		ring(c, wx, wy, wr, braille.Gold)
		a := p * 4 * math.Pi
		c.DrawLineColor(wx, wy, wx+int(math.Cos(a)*float64(wr-1)), wy+int(math.Sin(a)*float64(wr-1)), braille.Gold)
		c.DrawLineColor(hx+headR/2, y+1, wx-wr, wy, dim(braille.Gold, 0.7))
	}
}

func (r *Rabbit) Name() string { return "rabbit" }
