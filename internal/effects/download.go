package effects

import (
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

type drop struct {
	x, y  float64
	speed float64
	color braille.Color
}

// Download streams arrows down past a large download glyph.
type Download struct {
	timeline
	drops []drop
}

var dropPalette = []braille.Color{
	braille.RGB(100, 200, 255), braille.RGB(50, 150, 255), braille.RGB(0, 100, 255),
}

func NewDownload(d time.Duration) *Download {
	dl := &Download{timeline: newTimeline(d, 1500*time.Millisecond)}
	for i := 0; i < 15; i++ {
		f := float64(i)
		dl.drops = append(dl.drops, drop{
			x:     float64(int(f*20)%200) + 50,
			y:     -float64(int(f*10) % 100),
			speed: 80 + f*5,
			color: dropPalette[i%len(dropPalette)],
		})
	}
	return dl
}

func (d *Download) Update(dt time.Duration) bool {
	s := dt.Seconds()
	for i := range d.drops {
		d.drops[i].y += d.drops[i].speed * s
		if d.drops[i].y > fieldH {
			d.drops[i].y = -20
		}
	}
	return d.advance(dt)
}

func (d *Download) Render(c *braille.Canvas) {
	w, h := c.DotWidth(), c.DotHeight()

	// Big arrow: shaft then head, over a tray that fills with progress.
	cx := w / 2
	arrowH := h * 2 / 3
	top := (h - arrowH) / 2
	shaft := arrowH * 5 / 8
	green := braille.RGB(0, 255, 150)
	rect(c, cx-2, top, 4, shaft, green)
	for y := 0; y < arrowH-shaft; y++ {
		half := arrowH - shaft - y
		c.DrawLineColor(cx-half, top+shaft+y, cx+half, top+shaft+y, green)
	}
	trayY := top + arrowH + 1
	trayW := arrowH
	c.DrawLineColor(cx-trayW/2, trayY, cx+trayW/2, trayY, braille.White)
	filled := int(d.progress() * float64(trayW))
	c.DrawLineColor(cx-trayW/2, trayY+1, cx-trayW/2+filled, trayY+1, braille.RGB(0, 200, 255))

	for _, dr := range d.drops {
		x, y := project(c, dr.x, dr.y)
		c.DrawLineColor(x, y, x, y+3, dr.color)
		c.DrawLineColor(x-1, y+3, x+1, y+3, dr.color)
		c.SetColor(x, y+4, dr.color)
	}
}

func (d *Download) Name() string { return "download" }
