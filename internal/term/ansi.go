package term

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/san-kum/crabcrust/internal/braille"
	"golang.org/x/term"
)

const (
	fallbackCols = 80
	fallbackRows = 24
)

// ANSI is a Backend for a real terminal. Output is buffered and only
// reaches the terminal on Flush.
type ANSI struct {
	mu       sync.Mutex
	in, out  *os.File
	buf      *bufio.Writer
	term     *termenv.Output
	oldState *term.State
	colors   map[braille.Color]termenv.Color
}

// NewANSI returns a backend reading raw input from in and drawing to out.
func NewANSI(in, out *os.File) *ANSI {
	profile := termenv.NewOutput(out).EnvColorProfile()
	buf := bufio.NewWriterSize(out, 64*1024)
	return &ANSI{
		in:     in,
		out:    out,
		buf:    buf,
		term:   termenv.NewOutput(buf, termenv.WithProfile(profile)),
		colors: make(map[braille.Color]termenv.Color),
	}
}

// Stdio returns a backend on the process's standard streams.
func Stdio() *ANSI {
	return NewANSI(os.Stdin, os.Stdout)
}

// IsTerminal reports whether the output stream is a TTY.
func (a *ANSI) IsTerminal() bool {
	fd := a.out.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// InputIsTerminal reports whether the input stream is a TTY.
func (a *ANSI) InputIsTerminal() bool {
	fd := a.in.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (a *ANSI) Size() (int, int, error) {
	if !a.IsTerminal() {
		return fallbackCols, fallbackRows, nil
	}
	w, h, err := term.GetSize(int(a.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// EnableRawMode switches stdin to raw mode, saving the previous state.
// It is a no-op when stdin is not a terminal.
func (a *ANSI) EnableRawMode() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	fd := int(a.in.Fd())
	if a.oldState != nil || !term.IsTerminal(fd) {
		return nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	a.oldState = state
	return nil
}

// DisableRawMode restores the terminal to its previous state.
func (a *ANSI) DisableRawMode() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.oldState == nil {
		return nil
	}
	if err := term.Restore(int(a.in.Fd()), a.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	a.oldState = nil
	return nil
}

func (a *ANSI) EnterAltScreen() error {
	a.term.AltScreen()
	return nil
}

func (a *ANSI) ExitAltScreen() error {
	a.term.ExitAltScreen()
	return nil
}

func (a *ANSI) HideCursor() error {
	a.term.HideCursor()
	return nil
}

func (a *ANSI) ShowCursor() error {
	a.term.ShowCursor()
	return nil
}

func (a *ANSI) MoveTo(col, row int) error {
	// termenv positions are one-based.
	a.term.MoveCursor(row+1, col+1)
	return nil
}

func (a *ANSI) MoveUp(n int) error {
	if n > 0 {
		a.term.CursorUp(n)
	}
	return nil
}

func (a *ANSI) MoveDown(n int) error {
	if n > 0 {
		a.term.CursorDown(n)
	}
	return nil
}

func (a *ANSI) LineStart() error {
	return a.buf.WriteByte('\r')
}

func (a *ANSI) Newline() error {
	_, err := a.buf.WriteString("\r\n")
	return err
}

func (a *ANSI) ClearLine() error {
	a.term.ClearLine()
	return nil
}

func (a *ANSI) WriteCell(r rune, fg braille.Color, colored bool) error {
	if !colored {
		_, err := a.buf.WriteRune(r)
		return err
	}
	c, ok := a.colors[fg]
	if !ok {
		c = a.term.Color(fg.Hex())
		a.colors[fg] = c
	}
	_, err := a.buf.WriteString(a.term.String(string(r)).Foreground(c).String())
	return err
}

func (a *ANSI) Flush() error {
	if err := a.buf.Flush(); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}
	return nil
}
