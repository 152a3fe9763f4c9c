package term

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/san-kum/crabcrust/internal/braille"
	"github.com/san-kum/crabcrust/internal/logging"
)

var (
	// ErrReleased is returned when drawing on a surface after Release.
	ErrReleased = errors.New("term: surface already released")

	// ErrInvalidHeight indicates an inline region without rows.
	ErrInvalidHeight = errors.New("term: inline height must be positive")
)

type Kind int

const (
	KindFullscreen Kind = iota
	KindInline
)

// Mode selects how a surface takes over the terminal.
type Mode struct {
	Kind   Kind
	Height int // rows reserved by an inline surface
}

// Fullscreen takes over the whole terminal on the alternate screen.
func Fullscreen() Mode { return Mode{Kind: KindFullscreen} }

// Inline reserves height rows below the cursor and keeps the scrollback.
func Inline(height int) Mode { return Mode{Kind: KindInline, Height: height} }

// AutoInline sizes an inline region to rows/ratio of the terminal, bounded
// by [lo, hi].
func AutoInline(b Backend, ratio, lo, hi int) (Mode, error) {
	_, rows, err := b.Size()
	if err != nil {
		return Mode{}, err
	}
	if ratio <= 0 {
		ratio = 1
	}
	h := rows / ratio
	if h < lo {
		h = lo
	}
	if hi > 0 && h > hi {
		h = hi
	}
	return Inline(h), nil
}

func (m Mode) String() string {
	if m.Kind == KindInline {
		return fmt.Sprintf("inline(%d)", m.Height)
	}
	return "fullscreen"
}

// Surface is an acquired drawing region. It is owned by a single
// goroutine and must be released exactly once.
type Surface struct {
	b             Backend
	mode          Mode
	width, height int

	once       sync.Once
	released   bool
	releaseErr error
	log        zerolog.Logger
}

// Acquire takes control of the terminal. Fullscreen enables raw mode and
// switches to the alternate screen; Inline emits blank lines to reserve
// its rows. Both hide the cursor. If any step fails, whatever was already
// changed is restored before the error is returned.
func Acquire(b Backend, m Mode) (*Surface, error) {
	cols, rows, err := b.Size()
	if err != nil {
		return nil, fmt.Errorf("term: query size: %w", err)
	}

	s := &Surface{b: b, mode: m, width: cols, log: logging.For("term")}
	switch m.Kind {
	case KindFullscreen:
		s.height = rows
		err = s.acquireFullscreen()
	case KindInline:
		if m.Height <= 0 {
			return nil, ErrInvalidHeight
		}
		s.height = min(m.Height, rows)
		s.mode.Height = s.height
		err = s.acquireInline()
	default:
		return nil, fmt.Errorf("term: unknown surface kind %d", m.Kind)
	}
	if err != nil {
		_ = s.Release()
		return nil, fmt.Errorf("term: acquire %s: %w", s.mode, err)
	}

	s.log.Debug().Stringer("mode", s.mode).Int("cols", s.width).Int("rows", s.height).Msg("surface acquired")
	return s, nil
}

func (s *Surface) acquireFullscreen() error {
	if err := s.b.EnableRawMode(); err != nil {
		return err
	}
	if err := s.b.EnterAltScreen(); err != nil {
		return err
	}
	if err := s.b.HideCursor(); err != nil {
		return err
	}
	return s.b.Flush()
}

func (s *Surface) acquireInline() error {
	if err := s.b.HideCursor(); err != nil {
		return err
	}
	for i := 0; i < s.height; i++ {
		if err := s.b.Newline(); err != nil {
			return err
		}
	}
	if err := s.b.MoveUp(s.height); err != nil {
		return err
	}
	return s.b.Flush()
}

// Size returns the drawable area in cells.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// Mode returns the mode with the effective inline height.
func (s *Surface) Mode() Mode { return s.mode }

// Flush draws every cell of c that fits the surface. Fullscreen draws from
// the top-left corner of the screen; Inline draws into its reserved rows
// and leaves the cursor at the top of the region.
func (s *Surface) Flush(c *braille.Canvas) error {
	if s.released {
		return ErrReleased
	}
	w := min(c.Width, s.width)
	h := min(c.Height, s.height)

	for y := 0; y < h; y++ {
		if err := s.startRow(y); err != nil {
			return err
		}
		for x := 0; x < w; x++ {
			fg, colored := c.Color(x, y)
			if err := s.b.WriteCell(c.Rune(x, y), fg, colored); err != nil {
				return err
			}
		}
	}
	if s.mode.Kind == KindInline && h > 1 {
		if err := s.b.MoveUp(h - 1); err != nil {
			return err
		}
		if err := s.b.LineStart(); err != nil {
			return err
		}
	}
	return s.b.Flush()
}

func (s *Surface) startRow(y int) error {
	if s.mode.Kind == KindFullscreen {
		return s.b.MoveTo(0, y)
	}
	if y > 0 {
		if err := s.b.MoveDown(1); err != nil {
			return err
		}
	}
	return s.b.LineStart()
}

// Release restores the terminal. The cursor is always made visible again;
// Fullscreen also leaves the alternate screen and raw mode, Inline blanks
// exactly its reserved rows and parks the cursor at the top of them.
// Every step is attempted even if an earlier one fails. Only the first
// call does anything; later calls return the same result.
func (s *Surface) Release() error {
	s.once.Do(func() {
		s.released = true

		var errs []error
		switch s.mode.Kind {
		case KindFullscreen:
			errs = append(errs, s.b.ExitAltScreen(), s.b.ShowCursor(), s.b.Flush(), s.b.DisableRawMode())
		case KindInline:
			errs = append(errs, s.clearRegion(), s.b.ShowCursor(), s.b.Flush())
		}
		s.releaseErr = errors.Join(errs...)
		if s.releaseErr != nil {
			s.log.Warn().Err(s.releaseErr).Stringer("mode", s.mode).Msg("surface release incomplete")
			return
		}
		s.log.Debug().Stringer("mode", s.mode).Msg("surface released")
	})
	return s.releaseErr
}

func (s *Surface) clearRegion() error {
	for y := 0; y < s.height; y++ {
		if y > 0 {
			if err := s.b.MoveDown(1); err != nil {
				return err
			}
		}
		if err := s.b.LineStart(); err != nil {
			return err
		}
		if err := s.b.ClearLine(); err != nil {
			return err
		}
	}
	if s.height > 1 {
		if err := s.b.MoveUp(s.height - 1); err != nil {
			return err
		}
	}
	return s.b.LineStart()
}
