package term

import "github.com/san-kum/crabcrust/internal/braille"

// Backend abstracts the terminal control operations a Surface uses.
// Rows and columns are zero-based.
type Backend interface {
	Size() (cols, rows int, err error)

	EnableRawMode() error
	DisableRawMode() error
	EnterAltScreen() error
	ExitAltScreen() error
	HideCursor() error
	ShowCursor() error

	// MoveTo positions the cursor absolutely.
	MoveTo(col, row int) error
	MoveUp(n int) error
	MoveDown(n int) error
	// LineStart returns the cursor to column zero of the current row.
	LineStart() error
	// Newline moves to column zero of the next row, scrolling if needed.
	Newline() error
	ClearLine() error

	// WriteCell writes one glyph at the cursor and advances it by one column.
	// The glyph is painted in fg when colored is true.
	WriteCell(r rune, fg braille.Color, colored bool) error

	// Flush pushes buffered output to the terminal.
	Flush() error
}
