package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/san-kum/crabcrust/internal/braille"
)

// Cell is one character position of a Virtual screen.
type Cell struct {
	Rune    rune
	Fg      braille.Color
	Colored bool
}

// Virtual is an in-memory Backend. It keeps a main and an alternate
// screen, a cursor, and counters for every mode switch, so tests can check
// exactly which rows a surface touched.
type Virtual struct {
	mu sync.Mutex

	cols, rows int
	main, alt  [][]Cell
	scrollback [][]Cell
	inAlt      bool
	row, col   int
	savedRow   int
	savedCol   int

	raw           bool
	cursorVisible bool
	flushes       int
	clears        []int
	failErr       error
	input         io.Reader
}

// NewVirtual returns a blank cols x rows screen with a visible cursor at
// the top-left corner.
func NewVirtual(cols, rows int) *Virtual {
	return &Virtual{
		cols:          cols,
		rows:          rows,
		main:          blankScreen(cols, rows),
		cursorVisible: true,
	}
}

func blankScreen(cols, rows int) [][]Cell {
	s := make([][]Cell, rows)
	for i := range s {
		s[i] = blankLine(cols)
	}
	return s
}

func blankLine(cols int) []Cell {
	l := make([]Cell, cols)
	for i := range l {
		l[i].Rune = ' '
	}
	return l
}

func (v *Virtual) screen() [][]Cell {
	if v.inAlt {
		return v.alt
	}
	return v.main
}

// FailWith makes every subsequent write and flush return err. A nil err
// clears the failure.
func (v *Virtual) FailWith(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failErr = err
}

// SetInput makes r the keyboard of the screen. Keystrokes are delivered
// through WatchKeys.
func (v *Virtual) SetInput(r io.Reader) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input = r
}

func (v *Virtual) WatchKeys(parent context.Context) (*KeyWatch, error) {
	v.mu.Lock()
	r := v.input
	v.mu.Unlock()
	if r == nil {
		return nil, errors.New("virtual terminal has no input")
	}
	return WatchKeys(parent, r), nil
}

// Print writes s on the main screen at the cursor, as a shell would before
// the surface is acquired. '\n' starts a new line.
func (v *Virtual) Print(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range s {
		if r == '\n' {
			v.newline()
			continue
		}
		v.put(Cell{Rune: r})
	}
}

func (v *Virtual) Size() (int, int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cols, v.rows, nil
}

func (v *Virtual) EnableRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.raw = true
	return nil
}

func (v *Virtual) DisableRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.raw = false
	return nil
}

func (v *Virtual) EnterAltScreen() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.inAlt {
		v.savedRow, v.savedCol = v.row, v.col
		v.alt = blankScreen(v.cols, v.rows)
		v.inAlt = true
		v.row, v.col = 0, 0
	}
	return nil
}

func (v *Virtual) ExitAltScreen() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inAlt {
		v.inAlt = false
		v.alt = nil
		v.row, v.col = v.savedRow, v.savedCol
	}
	return nil
}

func (v *Virtual) HideCursor() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursorVisible = false
	return nil
}

func (v *Virtual) ShowCursor() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursorVisible = true
	return nil
}

func (v *Virtual) MoveTo(col, row int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.row = clamp(row, 0, v.rows-1)
	v.col = clamp(col, 0, v.cols-1)
	return nil
}

func (v *Virtual) MoveUp(n int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.row = clamp(v.row-n, 0, v.rows-1)
	return nil
}

func (v *Virtual) MoveDown(n int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.row = clamp(v.row+n, 0, v.rows-1)
	return nil
}

func (v *Virtual) LineStart() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.col = 0
	return nil
}

func (v *Virtual) Newline() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failErr != nil {
		return v.failErr
	}
	v.newline()
	return nil
}

func (v *Virtual) newline() {
	v.col = 0
	if v.row < v.rows-1 {
		v.row++
		return
	}
	s := v.screen()
	if !v.inAlt {
		v.scrollback = append(v.scrollback, s[0])
	}
	copy(s, s[1:])
	s[len(s)-1] = blankLine(v.cols)
}

func (v *Virtual) ClearLine() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.screen()[v.row] = blankLine(v.cols)
	v.clears = append(v.clears, v.row)
	return nil
}

func (v *Virtual) WriteCell(r rune, fg braille.Color, colored bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failErr != nil {
		return v.failErr
	}
	v.put(Cell{Rune: r, Fg: fg, Colored: colored})
	return nil
}

func (v *Virtual) put(c Cell) {
	if v.col >= v.cols {
		return
	}
	v.screen()[v.row][v.col] = c
	v.col++
}

func (v *Virtual) Flush() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failErr != nil {
		return fmt.Errorf("writing to virtual screen: %w", v.failErr)
	}
	v.flushes++
	return nil
}

// Line returns the text of a row on the visible screen with trailing
// blanks trimmed.
func (v *Virtual) Line(row int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.screen()
	if row < 0 || row >= len(s) {
		return ""
	}
	var b strings.Builder
	for _, c := range s[row] {
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}

// CellAt returns the cell at (col, row) of the visible screen.
func (v *Virtual) CellAt(col, row int) Cell {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.screen()[row][col]
}

// Cursor returns the cursor position.
func (v *Virtual) Cursor() (col, row int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.col, v.row
}

func (v *Virtual) CursorVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursorVisible
}

func (v *Virtual) RawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.raw
}

func (v *Virtual) InAltScreen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inAlt
}

// Flushes counts successful flushes.
func (v *Virtual) Flushes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.flushes
}

// ClearedRows lists the row of every ClearLine call in order.
func (v *Virtual) ClearedRows() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]int(nil), v.clears...)
}

// Scrollback returns the number of lines scrolled off the main screen.
func (v *Virtual) Scrollback() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.scrollback)
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(n, hi))
}
