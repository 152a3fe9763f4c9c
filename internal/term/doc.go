// Package term owns the terminal while an animation is on screen.
//
//   - [Backend]: the control primitives a surface needs (raw mode, alternate
//     screen, cursor visibility and movement, line clearing, styled cells)
//   - [ANSI]: Backend for a real TTY built on golang.org/x/term and termenv
//   - [Virtual]: in-memory Backend that models a screen, for tests and benchmarks
//   - [Surface]: an acquired drawing region, Fullscreen or Inline
//
// A Surface must be released exactly once. Callers pair [Acquire] with a
// deferred [Surface.Release], or use [Guard], which also releases when the
// guarded function panics.
package term
