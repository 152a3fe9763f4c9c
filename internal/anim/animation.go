package anim

import (
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
)

// Animation is anything the player can advance and draw.
type Animation interface {
	// Update advances internal time by dt and reports whether the
	// animation wants to keep running.
	Update(dt time.Duration) bool

	// Render draws the current state onto c. It must not change the
	// animation's state.
	Render(c *braille.Canvas)

	Name() string

	// Duration reports the total length when it is finite.
	Duration() (time.Duration, bool)
}
