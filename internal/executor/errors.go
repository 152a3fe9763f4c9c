package executor

import (
	"errors"
	"fmt"
)

var (
	ErrSpawn       = errors.New("executor: failed to start process")
	ErrWorkerPanic = errors.New("executor: worker panicked")
)

// SpawnError reports a command that could not be started.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("executor: start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

func (e *SpawnError) Is(target error) bool { return target == ErrSpawn }

// PanicError carries a panic recovered on the worker goroutine.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("executor: worker panicked: %v", e.Value)
}

func (e *PanicError) Is(target error) bool { return target == ErrWorkerPanic }
