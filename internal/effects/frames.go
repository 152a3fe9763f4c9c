package effects

import (
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

// FrameAnimation plays pre-rendered frames. Each Update advances at most
// one frame once the current frame's duration has been accumulated.
type FrameAnimation struct {
	name     string
	frames   []braille.Frame
	current  int
	elapsed  time.Duration
	loop     bool
	finished bool
	tint     *braille.Color
}

func NewFrameAnimation(name string, loop bool, frames ...braille.Frame) *FrameAnimation {
	return &FrameAnimation{name: name, loop: loop, frames: frames}
}

// Tint paints every lit cell col.
func (f *FrameAnimation) Tint(col braille.Color) *FrameAnimation {
	f.tint = &col
	return f
}

func (f *FrameAnimation) AddFrame(fr braille.Frame) {
	f.frames = append(f.frames, fr)
}

func (f *FrameAnimation) FrameCount() int { return len(f.frames) }

func (f *FrameAnimation) CurrentFrame() int { return f.current }

func (f *FrameAnimation) Update(dt time.Duration) bool {
	if len(f.frames) == 0 || f.finished {
		return false
	}

	f.elapsed += dt
	d := f.frames[f.current].Duration
	if f.elapsed < d {
		return true
	}
	f.elapsed -= d
	f.current++
	if f.current < len(f.frames) {
		return true
	}
	if f.loop {
		f.current = 0
		return true
	}
	// Hold the last frame on screen for the final draw.
	f.current = len(f.frames) - 1
	f.finished = true
	return false
}

func (f *FrameAnimation) Render(c *braille.Canvas) {
	if f.current >= len(f.frames) {
		return
	}
	fr := f.frames[f.current]
	if f.tint != nil {
		fr.ApplyColor(c, *f.tint)
		return
	}
	fr.Apply(c)
}

func (f *FrameAnimation) Name() string { return f.name }

// Duration is the sum of frame durations, or unknown when looping.
func (f *FrameAnimation) Duration() (time.Duration, bool) {
	if f.loop {
		return 0, false
	}
	var total time.Duration
	for _, fr := range f.frames {
		total += fr.Duration
	}
	return total, true
}
