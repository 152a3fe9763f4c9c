package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

// MatrixRain drops green streams down every other dot column. Each stream
// has its own speed, phase and tail length.
type MatrixRain struct {
	timeline
}

func NewMatrixRain(d time.Duration) *MatrixRain {
	return &MatrixRain{timeline: newTimeline(d, 2*time.Second)}
}

func (m *MatrixRain) Update(dt time.Duration) bool { return m.advance(dt) }

func (m *MatrixRain) Render(c *braille.Canvas) {
	h := float64(c.DotHeight())
	t := m.elapsed.Seconds()
	head := braille.RGB(220, 255, 220)
	body := braille.RGB(0, 255, 70)

	for col := 0; col < c.DotWidth(); col += 2 {
		speed := h * (0.6 + noise(col)*1.2)
		tail := 4 + int(noise(col+7919)*12)
		span := h + float64(tail)
		y := math.Mod(noise(col+104729)*span+t*speed, span)

		hy := int(y)
		c.SetColor(col, hy, head)
		for i := 1; i <= tail; i++ {
			fade := 1 - float64(i)/float64(tail+1)
			c.SetColor(col, hy-i, dim(body, fade))
		}
	}
}

func (m *MatrixRain) Name() string { return "matrix" }
