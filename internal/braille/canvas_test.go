package braille

import (
	"testing"
)

func TestSetMapsToBitTable(t *testing.T) {
	bits := map[[2]int]uint{
		{0, 0}: 0, {0, 1}: 1, {0, 2}: 2,
		{1, 0}: 3, {1, 1}: 4, {1, 2}: 5,
		{0, 3}: 6, {1, 3}: 7,
	}

	c := NewCanvas(3, 2)
	for y := 0; y < c.DotHeight(); y++ {
		for x := 0; x < c.DotWidth(); x++ {
			c.Clear()
			c.Set(x, y)

			want := rune(0x2800 | (1 << bits[[2]int{x % 2, y % 4}]))
			if got := c.Rune(x/2, y/4); got != want {
				t.Fatalf("dot (%d,%d): expected %U, got %U", x, y, want, got)
			}
			for cy := 0; cy < c.Height; cy++ {
				for cx := 0; cx < c.Width; cx++ {
					if (cx != x/2 || cy != y/4) && !c.IsEmpty(cx, cy) {
						t.Fatalf("dot (%d,%d) leaked into cell (%d,%d)", x, y, cx, cy)
					}
				}
			}
		}
	}
}

func TestSetOrsBits(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(0, 0)

	if got := c.Pattern(0, 0); got != 0x81 {
		t.Errorf("expected pattern 0x81, got %#x", got)
	}
	if got := c.Rune(0, 0); got != '⢁' {
		t.Errorf("expected ⢁, got %c", got)
	}
}

func TestSetOutOfRangeIsNoop(t *testing.T) {
	c := NewCanvas(2, 2)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 8}, {100, 100}} {
		c.Set(p[0], p[1])
		c.SetColor(p[0], p[1], Red)
	}
	for cy := 0; cy < 2; cy++ {
		for cx := 0; cx < 2; cx++ {
			if !c.IsEmpty(cx, cy) {
				t.Errorf("cell (%d,%d) should be empty", cx, cy)
			}
			if _, ok := c.Color(cx, cy); ok {
				t.Errorf("cell (%d,%d) should have no color", cx, cy)
			}
		}
	}
}

func TestClear(t *testing.T) {
	c := NewCanvas(4, 3)
	c.DrawLineColor(0, 0, c.DotWidth()-1, c.DotHeight()-1, Green)
	c.Set(3, 3)
	c.Clear()

	for cy := 0; cy < c.Height; cy++ {
		for cx := 0; cx < c.Width; cx++ {
			if !c.IsEmpty(cx, cy) {
				t.Errorf("cell (%d,%d) not empty after clear", cx, cy)
			}
			if _, ok := c.Color(cx, cy); ok {
				t.Errorf("cell (%d,%d) kept a color after clear", cx, cy)
			}
			if c.Rune(cx, cy) != Base {
				t.Errorf("cell (%d,%d) rune %U", cx, cy, c.Rune(cx, cy))
			}
		}
	}
}

func TestColorLastWriteWins(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetColor(0, 0, Red)
	c.SetColor(1, 2, Blue)

	col, ok := c.Color(0, 0)
	if !ok {
		t.Fatal("expected a color")
	}
	if col != Blue {
		t.Errorf("expected blue, got %v", col)
	}
	if c.Pattern(0, 0) != 0x01|0x20 {
		t.Errorf("both dots should remain set, got %#x", c.Pattern(0, 0))
	}

	// A monochrome dot does not disturb the stored color.
	c.Set(0, 1)
	if col, _ := c.Color(0, 0); col != Blue {
		t.Errorf("monochrome set changed color to %v", col)
	}
}

func TestDrawLineColorHorizontal(t *testing.T) {
	c := NewCanvas(8, 1)
	c.DrawLineColor(0, 0, 10, 0, Gold)

	count := 0
	for y := 0; y < c.DotHeight(); y++ {
		for x := 0; x < c.DotWidth(); x++ {
			if c.Get(x, y) {
				count++
				if y != 0 || x > 10 {
					t.Errorf("unexpected dot at (%d,%d)", x, y)
				}
			}
		}
	}
	if count != 11 {
		t.Errorf("expected 11 dots, got %d", count)
	}
	for cx := 0; cx <= 5; cx++ {
		if col, ok := c.Color(cx, 0); !ok || col != Gold {
			t.Errorf("cell %d: expected gold, got %v (%v)", cx, col, ok)
		}
	}
	if _, ok := c.Color(6, 0); ok {
		t.Error("cell 6 should be untouched")
	}
}

func TestDrawLineConnected(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"steep", 1, 0, 3, 15},
		{"shallow", 0, 2, 15, 5},
		{"reverse", 15, 15, 0, 0},
		{"vertical", 4, 15, 4, 0},
		{"point", 3, 3, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pts [][2]int
			bresenham(tt.x0, tt.y0, tt.x1, tt.y1, func(x, y int) { pts = append(pts, [2]int{x, y}) })

			if pts[0] != [2]int{tt.x0, tt.y0} || pts[len(pts)-1] != [2]int{tt.x1, tt.y1} {
				t.Fatalf("endpoints not covered: %v", pts)
			}
			for i := 1; i < len(pts); i++ {
				if absInt(pts[i][0]-pts[i-1][0]) > 1 || absInt(pts[i][1]-pts[i-1][1]) > 1 {
					t.Fatalf("gap between %v and %v", pts[i-1], pts[i])
				}
			}
		})
	}
}

func TestUnset(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	c.Set(1, 1)
	c.Unset(0, 0)
	c.Unset(-1, 0)

	if c.Pattern(0, 0) != 0x10 {
		t.Errorf("expected 0x10, got %#x", c.Pattern(0, 0))
	}
}

func TestString(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0)
	c.Set(3, 7)

	want := "⠁⠀\n⠀⢀\n"
	if got := c.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestColorHex(t *testing.T) {
	if got := RGB(255, 16, 0).Hex(); got != "#ff1000" {
		t.Errorf("expected #ff1000, got %s", got)
	}
	if got := HSV(0, 1, 1); got != Red {
		t.Errorf("expected red, got %v", got)
	}
}
