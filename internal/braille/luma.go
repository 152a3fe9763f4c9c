package braille

// BlitLuma maps a w x h grayscale buffer onto the dots of c with
// nearest-neighbour sampling. Pixels at or above threshold become dots.
func BlitLuma(luma []uint8, w, h int, threshold uint8, c *Canvas) {
	if w <= 0 || h <= 0 || len(luma) < w*h {
		return
	}
	dotW, dotH := c.DotWidth(), c.DotHeight()
	for dy := 0; dy < dotH; dy++ {
		off := (dy * h / dotH) * w
		for dx := 0; dx < dotW; dx++ {
			if luma[off+dx*w/dotW] >= threshold {
				c.Set(dx, dy)
			}
		}
	}
}
