package effects

import (
	"math"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

type spark struct {
	x, y   float64
	vx, vy float64
	life   float64
}

type shell struct {
	x, y     float64
	launch   float64
	exploded bool
	color    braille.Color
	sparks   []spark
}

// Fireworks launches five shells in a staggered volley.
type Fireworks struct {
	timeline
	shells []shell
}

var shellPalette = []braille.Color{
	braille.Red, braille.Gold, braille.Green, braille.Cyan, braille.RGB(255, 0, 255),
}

func NewFireworks(d time.Duration) *Fireworks {
	f := &Fireworks{timeline: newTimeline(d, 3*time.Second)}
	for i := 0; i < 5; i++ {
		f.shells = append(f.shells, shell{
			x:      50 + float64(i)*50,
			y:      fieldH - 50,
			launch: float64(i) * 0.3,
			color:  shellPalette[i%len(shellPalette)],
		})
	}
	return f
}

func burst(x, y float64) []spark {
	sparks := make([]spark, 0, 36*3)
	for a := 0; a < 36; a++ {
		rad := float64(a) * 10 * math.Pi / 180
		for speed := 1; speed < 4; speed++ {
			sparks = append(sparks, spark{
				x: x, y: y,
				vx:   math.Cos(rad) * float64(speed) * 15,
				vy:   math.Sin(rad) * float64(speed) * 15,
				life: 1,
			})
		}
	}
	return sparks
}

func (f *Fireworks) Update(dt time.Duration) bool {
	s := dt.Seconds()
	now := f.elapsed.Seconds() + s

	for i := range f.shells {
		sh := &f.shells[i]
		if now >= sh.launch && !sh.exploded {
			if sh.y > 80 {
				sh.y -= 150 * s
			} else {
				sh.exploded = true
				sh.sparks = burst(sh.x, sh.y)
			}
		}
		if !sh.exploded {
			continue
		}
		live := sh.sparks[:0]
		for _, sp := range sh.sparks {
			sp.x += sp.vx * s
			sp.y += sp.vy * s
			sp.vy += 50 * s
			sp.life -= s * 0.5
			if sp.life > 0 {
				live = append(live, sp)
			}
		}
		sh.sparks = live
	}
	return f.advance(dt)
}

func (f *Fireworks) Render(c *braille.Canvas) {
	exploded := 0
	for _, sh := range f.shells {
		if !sh.exploded {
			if f.elapsed.Seconds() < sh.launch {
				continue
			}
			x, y := project(c, sh.x, sh.y)
			c.DrawLineColor(x, y, x, y+3, braille.White)
			for dy := 4; dy < 7; dy++ {
				col := braille.RGB(255, 200, 0)
				if dy%2 == 0 {
					col = braille.RGB(255, 100, 0)
				}
				c.SetColor(x, y+dy, col)
			}
			continue
		}
		exploded++
		for _, sp := range sh.sparks {
			x, y := project(c, sp.x, sp.y)
			col := dim(sh.color, sp.life)
			c.SetColor(x, y, col)
			c.SetColor(x+1, y, col)
		}
	}

	if exploded == 0 {
		return
	}
	cx, cy := float64(c.DotWidth())/2, float64(c.DotHeight())/2
	r := 0.4 * math.Min(cx, cy*2)
	for i := 0; i < 20; i++ {
		a := (f.elapsed.Seconds()*2 + float64(i)*18) * math.Pi / 180
		plot(c, cx+math.Cos(a)*r, cy+math.Sin(a)*r/2, braille.Yellow)
	}
}

func (f *Fireworks) Name() string { return "fireworks" }
