package braille

import "testing"

func TestBlitLumaAllBright(t *testing.T) {
	c := NewCanvas(2, 2)
	luma := make([]uint8, 4*8)
	for i := range luma {
		luma[i] = 255
	}

	BlitLuma(luma, 4, 8, 128, c)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if c.Pattern(x, y) != 0xff {
				t.Errorf("cell (%d,%d): expected full, got %#x", x, y, c.Pattern(x, y))
			}
		}
	}
}

func TestBlitLumaThreshold(t *testing.T) {
	c := NewCanvas(2, 2)
	luma := make([]uint8, 4*8)
	for i := 0; i < len(luma)/2; i++ {
		luma[i] = 255
	}

	BlitLuma(luma, 4, 8, 128, c)

	if c.IsEmpty(0, 0) || c.IsEmpty(1, 0) {
		t.Error("top row should have dots")
	}
	if !c.IsEmpty(0, 1) || !c.IsEmpty(1, 1) {
		t.Error("bottom row should be empty")
	}
}

func TestBlitLumaScales(t *testing.T) {
	c := NewCanvas(4, 2) // 8x8 dots
	luma := []uint8{
		255, 0,
		0, 255,
	}

	BlitLuma(luma, 2, 2, 128, c)

	if !c.Get(0, 0) || !c.Get(3, 3) || c.Get(4, 0) || !c.Get(7, 7) || c.Get(0, 7) {
		t.Errorf("unexpected scaling:\n%s", c)
	}
}
