package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

type confettiShape int

const (
	square confettiShape = iota
	round
	triangle
)

type confettiPiece struct {
	x, y   float64
	vx, vy float64
	color  braille.Color
	shape  confettiShape
}

// Confetti rains coloured pieces with a ring of stars and sparkles.
type Confetti struct {
	timeline
	pieces []confettiPiece
}

var confettiPalette = []braille.Color{
	braille.Red, braille.Orange, braille.Yellow, braille.Green,
	braille.Blue, braille.Purple, braille.Pink, braille.Gold,
}

func NewConfetti(d time.Duration) *Confetti {
	c := &Confetti{timeline: newTimeline(d, 2*time.Second)}
	for i := 0; i < 100; i++ {
		f := float64(i)
		c.pieces = append(c.pieces, confettiPiece{
			x:     math.Mod(f*5, fieldW),
			y:     -30 - math.Mod(f*2, 80),
			vx:    math.Sin(f*0.7) * 20,
			vy:    40 + math.Mod(f, 30),
			color: confettiPalette[i%len(confettiPalette)],
			shape: confettiShape(i % 3),
		})
	}
	return c
}

func (c *Confetti) Update(dt time.Duration) bool {
	s := dt.Seconds()
	for i := range c.pieces {
		p := &c.pieces[i]
		p.x += p.vx * s
		p.y += p.vy * s
		p.vy += 20 * s
		p.vx += math.Sin(p.y*0.1) * 5 * s

		if p.y > fieldH {
			p.y = -10
			p.vy = 40 + math.Mod(math.Abs(p.x)*0.1, 30)
		}
		switch {
		case p.x < -10:
			p.x += fieldW + 10
		case p.x > fieldW:
			p.x -= fieldW + 10
		}
	}
	return c.advance(dt)
}

func (c *Confetti) Render(cv *braille.Canvas) {
	for _, p := range c.pieces {
		x, y := project(cv, p.x, p.y)
		switch p.shape {
		case square:
			rect(cv, x, y, 3, 3, p.color)
		case round:
			disc(cv, x, y, 1, p.color)
		case triangle:
			for dy := 0; dy < 3; dy++ {
				for dx := 0; dx < 3-dy; dx++ {
					cv.SetColor(x+dx, y+dy, p.color)
				}
			}
		}
	}

	cx, cy := cv.DotWidth()/2, cv.DotHeight()/2
	prog := c.progress()
	radius := 0.3 * math.Min(float64(cv.DotWidth()), float64(cv.DotHeight())*2)

	if prog > 0.3 && prog < 0.8 {
		for i := 0; i < 8; i++ {
			a := (float64(i)*45 + prog*360) * math.Pi / 180
			r := radius + math.Sin(prog*10)*2
			sx := cx + int(math.Cos(a)*r)
			sy := cy + int(math.Sin(a)*r*0.5)
			star(cv, sx, sy, 3, braille.Yellow)
		}
	}

	sparkles := min(int(prog*20), 20)
	for i := 0; i < sparkles; i++ {
		a := (float64(i)*30 + c.elapsed.Seconds()*100) * math.Pi / 180
		r := radius*0.7 + float64(i)
		plot(cv, float64(cx)+math.Cos(a)*r, float64(cy)+math.Sin(a)*r*0.5, braille.White)
	}
}

func (c *Confetti) Name() string { return "confetti" }
