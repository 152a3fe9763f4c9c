package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

var babyPalette = []braille.Color{
	braille.Pink, braille.RGB(137, 207, 240), braille.Yellow, braille.White,
}

// Baby announces a new arrival: a stork flies in with a bundle, then a
// sign rises between balloons while confetti falls.
type Baby struct {
	timeline
	pieces []confettiPiece
}

func NewBaby(d time.Duration) *Baby {
	b := &Baby{timeline: newTimeline(d, 2500*time.Millisecond)}
	for i := 0; i < 60; i++ {
		b.pieces = append(b.pieces, confettiPiece{
			x:     noise(i) * fieldW,
			y:     -noise(i+100) * fieldH,
			vx:    (noise(i+200) - 0.5) * 30,
			vy:    30 + noise(i+300)*40,
			color: babyPalette[i%len(babyPalette)],
		})
	}
	return b
}

func (b *Baby) Update(dt time.Duration) bool {
	s := dt.Seconds()
	for i := range b.pieces {
		p := &b.pieces[i]
		p.x += p.vx * s
		p.y += p.vy * s
		if p.y > fieldH {
			p.y -= fieldH + 10
		}
		p.x = math.Mod(p.x+fieldW, fieldW)
	}
	return b.advance(dt)
}

func (b *Baby) Render(c *braille.Canvas) {
	for _, p := range b.pieces {
		x, y := project(c, p.x, p.y)
		rect(c, x, y, 2, 2, p.color)
	}

	prog := b.progress()
	w, h := float64(c.DotWidth()), float64(c.DotHeight())
	unit := math.Max(3, math.Min(w, h)*0.08)

	if prog > 0.2 {
		t := (prog - 0.2) / 0.8
		sx := int(w * (0.1 + 0.5*t))
		sy := int(h*0.3 + math.Sin(t*4*math.Pi)*unit*0.5)
		b.stork(c, sx, sy, unit, prog > 0.4)
	}

	if prog > 0.6 {
		t := (prog - 0.6) / 0.4
		b.sign(c, int(w*0.75), int(h*0.7), unit, t)
	}
}

func (b *Baby) stork(c *braille.Canvas, x, y int, unit float64, bundle bool) {
	rx, ry := int(unit*1.5), int(unit*0.6)
	ellipse(c, x, y, rx, ry, braille.White)

	// Neck and head lead the flight to the right.
	hx, hy := x+rx+int(unit), y-int(unit)
	c.DrawLineColor(x+rx-1, y, hx, hy, braille.White)
	disc(c, hx, hy, max(1, int(unit*0.4)), braille.White)
	beak := int(unit * 1.2)
	c.DrawLineColor(hx+1, hy, hx+beak, hy+1, braille.Orange)

	flap := math.Sin(b.elapsed.Seconds() * 12)
	span := int(unit * 2)
	tipY := y - int(flap*unit*1.5)
	c.DrawLineColor(x-rx/2, y-ry, x-rx/2-span/2, tipY, braille.White)
	c.DrawLineColor(x+rx/3, y-ry, x+rx/3-span/2, tipY-1, braille.White)

	c.DrawLineColor(x-rx, y, x-rx-int(unit), y+1, braille.White)

	if bundle {
		tip := hx + beak
		by := hy + int(unit*2)
		c.DrawLineColor(tip, hy+1, tip, by-int(unit*0.6), dim(braille.White, 0.6))
		ellipse(c, tip, by, int(unit*0.8), int(unit*0.6), braille.Pink)
		disc(c, tip+int(unit*0.3), by-int(unit*0.2), max(1, int(unit*0.25)), braille.RGB(255, 224, 189))
	}
}

// sign rises into place with a balloon on each side. t runs from 0 to 1.
func (b *Baby) sign(c *braille.Canvas, cx, cy int, unit, t float64) {
	rise := int((1 - math.Min(1, t*2)) * unit * 3)
	sw, sh := int(unit*5), int(unit*2.5)
	x, y := cx-sw/2, cy-sh/2+rise

	rect(c, x+1, y+1, sw-2, sh-2, dim(braille.Pink, 0.35))
	outline(c, x, y, sw, sh, braille.RGB(139, 69, 19))
	outline(c, x+1, y+1, sw-2, sh-2, braille.RGB(139, 69, 19))
	c.DrawLineColor(cx, y+sh, cx, y+sh+int(unit*1.5), braille.RGB(139, 69, 19))
	heart(c, cx, y+sh/2, max(2, int(unit*0.6)), braille.Red)

	for i, col := range []braille.Color{braille.RGB(137, 207, 240), braille.Pink} {
		side := float64(2*i - 1)
		bx := cx + int(side*(float64(sw)/2+unit*1.5))
		by := y - int(t*unit*2) + int(math.Sin(t*6+side)*unit*0.3)
		ellipse(c, bx, by, int(unit*0.8), int(unit), col)
		c.DrawLineColor(bx, by+int(unit), bx+int(side*-unit*0.5), cy+sh/2, dim(braille.White, 0.7))
	}
}

// heart draws a filled heart of half-width r whose lobes sit on y.
func heart(c *braille.Canvas, cx, y, r int, col braille.Color) {
	lobe := max(1, r/2)
	disc(c, cx-lobe, y, lobe, col)
	disc(c, cx+lobe, y, lobe, col)
	for dy := 0; dy <= r; dy++ {
		half := r - dy
		c.DrawLineColor(cx-half, y+dy, cx+half, y+dy, col)
	}
}

func (b *Baby) Name() string { return "baby" }
