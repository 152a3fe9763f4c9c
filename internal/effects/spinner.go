package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

// Spinner is an endless rotating arc. It is what runs while a command is
// in flight, so it never asks to stop.
type Spinner struct {
	elapsed time.Duration
	rps     float64
}

func NewSpinner() *Spinner { return &Spinner{rps: 1.2} }

func (s *Spinner) Update(dt time.Duration) bool {
	s.elapsed += dt
	return true
}

func (s *Spinner) Render(c *braille.Canvas) {
	cx := float64(c.DotWidth()) / 2
	cy := float64(c.DotHeight()) / 2
	r := 0.4 * math.Min(float64(c.DotWidth()), float64(c.DotHeight()))
	if r < 2 {
		r = 2
	}

	t := s.elapsed.Seconds()
	head := t * s.rps * 2 * math.Pi
	hue := math.Mod(t*120, 360)

	const tail = 28
	for i := 0; i < tail; i++ {
		a := head - float64(i)*0.12
		fade := 1 - float64(i)/tail
		col := braille.HSV(math.Mod(hue+float64(i)*6, 360), 0.85, 0.4+0.6*fade)
		for dr := -1.0; dr <= 1.0; dr++ {
			plot(c, cx+math.Cos(a)*(r+dr), cy+math.Sin(a)*(r+dr), col)
		}
	}

	// Pulsing hub.
	pulse := 1 + int(math.Round((math.Sin(t*6)+1)*1.5))
	disc(c, int(cx), int(cy), pulse, braille.HSV(hue, 0.6, 1))
}

func (s *Spinner) Name() string { return "spinner" }

func (s *Spinner) Duration() (time.Duration, bool) { return 0, false }
