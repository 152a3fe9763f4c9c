// Package effects holds the built-in animations.
//
// Procedural effects simulate in their own coordinate space and project it
// onto whatever canvas they are given, so the same effect works in a
// fifteen row inline region and on a full screen. FrameAnimation plays
// pre-rendered braille frames such as converted GIF clips.
package effects
