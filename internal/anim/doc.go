// Package anim defines the animation contract and plays animations on a
// terminal surface.
//
//   - [Animation]: update/render/name/duration, implemented by every effect
//   - [Player]: cooperative frame loop with three run modes
//
// # Run Modes
//
//	Play      - until the animation's Update returns false
//	PlayFor   - for a fixed wall-clock duration, ignoring Update's result
//	PlayUntil - until a predicate reports true or a timeout expires
//
// PlayUntil is how a background command and an animation race: the
// predicate is normally [executor.Handle.IsDone]. The loop polls it once
// per frame and never waits on the process itself.
//
// # Thread Safety
//
// A Player and the surface it draws on belong to one goroutine.
package anim
