package executor

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/crabcrust/internal/logging"
)

// Result describes one finished command.
type Result struct {
	Command  string
	Args     []string
	ExitCode int
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CombinedOutput is stdout followed by stderr. A newline is inserted
// between them when stdout does not already end with one.
func (r Result) CombinedOutput() string {
	if r.Stdout == "" || r.Stderr == "" || strings.HasSuffix(r.Stdout, "\n") {
		return r.Stdout + r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

type Option func(*Executor)

// WithSpawner replaces the process launcher. Tests use it to inject
// fake processes.
func WithSpawner(s Spawner) Option {
	return func(e *Executor) { e.spawner = s }
}

type Executor struct {
	spawner Spawner
	log     zerolog.Logger
}

func New(opts ...Option) *Executor {
	e := &Executor{
		spawner: OSSpawner{},
		log:     logging.For("executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run starts name and blocks until it exits.
func (e *Executor) Run(name string, args ...string) (Result, error) {
	p, start, err := e.start(name, args)
	if err != nil {
		return Result{}, err
	}
	return e.collect(p, name, args, start)
}

// RunConcurrent starts name and returns at once. Spawn failures are
// returned here rather than from Wait.
func (e *Executor) RunConcurrent(name string, args ...string) (*Handle, error) {
	p, start, err := e.start(name, args)
	if err != nil {
		return nil, err
	}

	h := &Handle{finished: make(chan struct{})}
	go func() {
		defer func() {
			if v := recover(); v != nil {
				h.err = &PanicError{Value: v, Stack: debug.Stack()}
				e.log.Error().Interface("panic", v).Str("command", name).Msg("worker panicked")
			}
			// Result is fully written before the flag flips.
			h.done.Store(true)
			close(h.finished)
		}()
		h.result, h.err = e.collect(p, name, args, start)
	}()
	return h, nil
}

func (e *Executor) start(name string, args []string) (Process, time.Time, error) {
	start := time.Now()
	p, err := e.spawner.Start(name, args)
	if err != nil {
		e.log.Warn().Err(err).Str("command", name).Strs("args", args).Msg("spawn failed")
		return nil, start, &SpawnError{Command: name, Err: err}
	}
	e.log.Debug().Str("command", name).Strs("args", args).Msg("process started")
	return p, start, nil
}

func (e *Executor) collect(p Process, name string, args []string, start time.Time) (Result, error) {
	out, err := p.Wait()
	res := Result{
		Command:  name,
		Args:     args,
		ExitCode: out.ExitCode,
		Success:  err == nil && out.ExitCode == 0,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Duration: time.Since(start),
	}
	if err != nil {
		e.log.Warn().Err(err).Str("command", name).Msg("wait failed")
		return res, fmt.Errorf("executor: wait %s: %w", name, err)
	}
	e.log.Debug().
		Str("command", name).
		Int("exit_code", res.ExitCode).
		Dur("duration", res.Duration).
		Msg("process exited")
	return res, nil
}

// Handle is a command running on a worker goroutine.
type Handle struct {
	done     atomic.Bool
	finished chan struct{}

	result Result
	err    error
}

// IsDone reports whether the worker has stored its result. It never
// blocks, so it can back a per-frame predicate.
func (h *Handle) IsDone() bool { return h.done.Load() }

// Done is closed when the worker finishes.
func (h *Handle) Done() <-chan struct{} { return h.finished }

// Wait blocks until the worker finishes and returns its result. Every
// call returns the same values.
func (h *Handle) Wait() (Result, error) {
	<-h.finished
	return h.result, h.err
}
