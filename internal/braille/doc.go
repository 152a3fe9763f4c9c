// Package braille packs a dot-matrix canvas into Unicode Braille glyphs.
//
// Every terminal cell holds a 2x4 block of dots. The dots of one cell are
// stored as a single byte whose bits follow the Unicode Braille Pattern
// layout, so the rendered glyph is always 0x2800 + pattern:
//
//	bit0 bit3
//	bit1 bit4
//	bit2 bit5
//	bit6 bit7
//
// The package provides:
//
//   - [Canvas]: dot buffer with a parallel per-cell color plane
//   - [Frame]: a packed, pre-rendered canvas snapshot
//   - [BlitLuma]: threshold a grayscale image onto a canvas
//
// Colors are tracked per cell, not per dot. The last colored write into a
// cell wins, even when the earlier dots came from an unrelated shape.
package braille
