package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/muesli/cancelreader"
)

var (
	// ErrInterrupt is the cause of a watch ended by Ctrl-C.
	ErrInterrupt = errors.New("interrupted")
	// ErrQuit is the cause of a watch ended by q or Esc.
	ErrQuit = errors.New("quit")
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

// KeySource is implemented by backends that can deliver keystrokes while
// an animation plays.
type KeySource interface {
	WatchKeys(parent context.Context) (*KeyWatch, error)
}

// KeyWatch reads raw keystrokes and cancels its context when a stop key
// arrives. In raw mode the terminal delivers Ctrl-C as a plain byte, so
// this is the only way playback sees it.
type KeyWatch struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	r      io.Reader
	done   chan struct{}
	stop   sync.Once
}

// WatchKeys starts reading r in the background. A nil r yields a watch
// that only follows parent.
func WatchKeys(parent context.Context, r io.Reader) *KeyWatch {
	ctx, cancel := context.WithCancelCause(parent)
	w := &KeyWatch{ctx: ctx, cancel: cancel, r: r, done: make(chan struct{})}
	if r == nil {
		close(w.done)
		return w
	}
	go w.read()
	return w
}

// Watch starts a KeyWatch on b when it is a KeySource. Backends without
// input, or whose input cannot be watched, get a watch that only follows
// parent.
func Watch(parent context.Context, b Backend) *KeyWatch {
	if src, ok := b.(KeySource); ok {
		if w, err := src.WatchKeys(parent); err == nil && w != nil {
			return w
		}
	}
	return WatchKeys(parent, nil)
}

func (w *KeyWatch) read() {
	defer close(w.done)
	buf := make([]byte, 64)
	for {
		n, err := w.r.Read(buf)
		if cause := stopCause(buf[:n]); cause != nil {
			w.cancel(cause)
			return
		}
		if err != nil {
			return
		}
	}
}

// stopCause scans one read's worth of input. Esc counts only when it is
// the last byte, since arrow and function keys arrive as Esc-prefixed
// sequences in a single read.
func stopCause(p []byte) error {
	for i, b := range p {
		switch b {
		case keyCtrlC:
			return ErrInterrupt
		case 'q', 'Q':
			return ErrQuit
		case keyEsc:
			if i == len(p)-1 {
				return ErrQuit
			}
			return nil
		}
	}
	return nil
}

// Context is cancelled when a stop key arrives, when parent is done, or
// on Stop.
func (w *KeyWatch) Context() context.Context { return w.ctx }

// Done is closed once the reader goroutine has returned.
func (w *KeyWatch) Done() <-chan struct{} { return w.done }

// Cause reports why the watch ended: ErrInterrupt, ErrQuit, the parent's
// cause, or nil while it is still running.
func (w *KeyWatch) Cause() error {
	if w.ctx.Err() == nil {
		return nil
	}
	return context.Cause(w.ctx)
}

// Quit reports whether the user asked to stop playback with q or Esc.
func (w *KeyWatch) Quit() bool { return errors.Is(w.Cause(), ErrQuit) }

// Stop ends the watch. When the reader supports cancellation Stop waits
// for the goroutine to return, so the input is free for the next reader.
// Stop is safe to call more than once.
func (w *KeyWatch) Stop() {
	w.stop.Do(func() {
		w.cancel(nil)
		if c, ok := w.r.(interface{ Cancel() bool }); ok && c.Cancel() {
			<-w.done
		}
		if c, ok := w.r.(io.Closer); ok {
			_ = c.Close()
		}
	})
}

// WatchKeys watches the input stream for stop keys. It is only meaningful
// when input is a terminal.
func (a *ANSI) WatchKeys(parent context.Context) (*KeyWatch, error) {
	if !a.InputIsTerminal() {
		return nil, fmt.Errorf("watching input: not a terminal")
	}
	r, err := cancelreader.NewReader(a.in)
	if err != nil {
		return nil, fmt.Errorf("watching input: %w", err)
	}
	return WatchKeys(parent, r), nil
}
