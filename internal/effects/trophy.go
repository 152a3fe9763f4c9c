package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

var (
	trophyGold     = braille.Gold
	trophyDarkGold = braille.RGB(204, 172, 0)
	trophyBrown    = braille.RGB(139, 69, 19)
)

// Trophy builds a gold cup from the bowl down, crowns it with a star and
// lets it shine.
type Trophy struct {
	timeline
}

func NewTrophy(d time.Duration) *Trophy {
	return &Trophy{timeline: newTimeline(d, 2*time.Second)}
}

func (t *Trophy) Update(dt time.Duration) bool { return t.advance(dt) }

func (t *Trophy) Render(c *braille.Canvas) {
	p := t.progress()
	reveal := p * 100

	size := int(0.7 * math.Min(float64(c.DotWidth()), float64(c.DotHeight())))
	if size < 12 {
		size = 12
	}
	cx := c.DotWidth() / 2
	top := (c.DotHeight()-size)/2 + size/6

	bowlH := size / 2
	bowlW := size * 3 / 4
	bowlBottom := top + bowlH

	if reveal > 10 {
		// The bowl fills in from the bottom.
		rows := int(float64(bowlH) * math.Min(1, (reveal-10)/30))
		for dy := bowlH - rows; dy < bowlH; dy++ {
			f := float64(dy) / float64(bowlH)
			half := int(float64(bowlW) / 2 * (1 - 0.6*f*f))
			c.DrawLineColor(cx-half, top+dy, cx+half, top+dy, trophyGold)
			c.SetColor(cx-half, top+dy, trophyDarkGold)
			c.SetColor(cx+half, top+dy, trophyDarkGold)
		}
		if rows == bowlH {
			c.DrawLineColor(cx-bowlW/2, top, cx+bowlW/2, top, trophyDarkGold)
			// Handles.
			r := float64(bowlH) / 4
			hy := float64(top) + float64(bowlH)/3
			for a := -90.0; a <= 90; a += 10 {
				rad := a * math.Pi / 180
				plot(c, float64(cx+bowlW/2)+math.Cos(rad)*r, hy+math.Sin(rad)*r, trophyDarkGold)
				plot(c, float64(cx-bowlW/2)-math.Cos(rad)*r, hy+math.Sin(rad)*r, trophyDarkGold)
			}
		}
	}

	stemW := max(2, size/8)
	stemH := max(2, size/5)
	if reveal > 40 {
		rect(c, cx-stemW/2, bowlBottom, stemW, stemH, trophyDarkGold)
	}
	if reveal > 50 {
		baseW := size / 2
		baseH := max(2, size/10)
		rect(c, cx-baseW/2, bowlBottom+stemH, baseW, baseH, trophyBrown)
		c.DrawLineColor(cx-baseW/2, bowlBottom+stemH, cx+baseW/2-1, bowlBottom+stemH, trophyGold)
	}

	if p > 0.5 {
		r := int(float64(size) / 5 * (p - 0.5) / 0.5)
		star(c, cx, top-size/8, max(1, r), braille.White)
	}

	centerY := top + bowlH/2
	if p > 0.4 {
		orbit := float64(size) * 0.7
		for i := 0; i < 6; i++ {
			a := (float64(i)*60 + p*360) * math.Pi / 180
			sx := cx + int(math.Cos(a)*orbit)
			sy := centerY + int(math.Sin(a)*orbit*0.5)
			c.DrawLineColor(sx-1, sy, sx+1, sy, braille.White)
			c.DrawLineColor(sx, sy-1, sx, sy+1, braille.White)
		}
	}

	if p > 0.6 {
		fade := 1 - (p-0.6)/0.4
		col := dim(braille.Yellow.Blend(braille.Orange, 1-fade), 0.4+0.6*fade)
		inner := float64(size) * 0.55
		outer := inner + float64(size)*0.3*(p-0.6)/0.4
		for i := 0; i < 12; i++ {
			a := float64(i) * 30 * math.Pi / 180
			c.DrawLineColor(
				cx+int(math.Cos(a)*inner), centerY+int(math.Sin(a)*inner*0.5),
				cx+int(math.Cos(a)*outer), centerY+int(math.Sin(a)*outer*0.5),
				col)
		}
	}
}

func (t *Trophy) Name() string { return "trophy" }
