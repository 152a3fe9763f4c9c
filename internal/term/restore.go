package term

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Guard acquires a surface, runs fn, and releases the surface on every
// exit path. A panic inside fn releases the surface and then continues
// unwinding. A release error is reported only when fn succeeded.
func Guard(b Backend, m Mode, fn func(*Surface) error) (err error) {
	s, err := Acquire(b, m)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = s.Release()
			panic(r)
		}
		if rerr := s.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(s)
}

// RestoreOnPanic should be deferred at the top of main (or any goroutine
// that owns the terminal) right after the terminal is taken over. On panic
// it calls release, prints the panic value and stack trace, then exits
// with code 1.
func RestoreOnPanic(release func() error) {
	r := recover()
	if r == nil {
		return
	}

	// Best-effort: the process is going down either way.
	_ = release()

	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", r, debug.Stack())
	os.Exit(1)
}
