package braille

import (
	"errors"
	"fmt"
	"time"
)

var ErrFrameSize = errors.New("braille: pattern count does not match frame size")

// Frame is a packed canvas snapshot: one pattern byte per cell, row-major.
type Frame struct {
	Patterns []uint8
	Width    int
	Height   int
	Duration time.Duration
}

// FrameFromCanvas packs the current dot state of c. Colors are dropped.
func FrameFromCanvas(c *Canvas, d time.Duration) Frame {
	patterns := make([]uint8, len(c.patterns))
	copy(patterns, c.patterns)
	return Frame{
		Patterns: patterns,
		Width:    c.Width,
		Height:   c.Height,
		Duration: d,
	}
}

func (f Frame) Validate() error {
	if f.Width < 0 || f.Height < 0 || len(f.Patterns) != f.Width*f.Height {
		return fmt.Errorf("%w: %dx%d with %d patterns", ErrFrameSize, f.Width, f.Height, len(f.Patterns))
	}
	return nil
}

// Apply unpacks the frame onto c dot by dot, clipped to the overlap of
// both sizes. Existing dots are kept.
func (f Frame) Apply(c *Canvas) {
	f.unpack(c, c.Set)
}

// ApplyColor is Apply with every touched cell painted col.
func (f Frame) ApplyColor(c *Canvas, col Color) {
	f.unpack(c, func(x, y int) { c.SetColor(x, y, col) })
}

func (f Frame) unpack(c *Canvas, set func(x, y int)) {
	w := min(f.Width, c.Width)
	h := min(f.Height, c.Height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*f.Width + x
			if i >= len(f.Patterns) {
				return
			}
			pattern := f.Patterns[i]
			if pattern == 0 {
				continue
			}
			for bit, off := range dotOffsets {
				if pattern&(1<<bit) != 0 {
					set(x*2+off[0], y*4+off[1])
				}
			}
		}
	}
}
