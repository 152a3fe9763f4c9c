package anim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/crabcrust/internal/braille"
	"github.com/san-kum/crabcrust/internal/logging"
	"github.com/san-kum/crabcrust/internal/term"
)

// DefaultFPS is the target frame rate.
const DefaultFPS = 60

var (
	// ErrInvalidDuration indicates a negative run length or timeout.
	ErrInvalidDuration = errors.New("anim: duration must not be negative")

	// ErrNilPredicate indicates PlayUntil was called without a predicate.
	ErrNilPredicate = errors.New("anim: predicate is nil")
)

// Surface is where frames go. *term.Surface implements it.
type Surface interface {
	Size() (width, height int)
	Flush(c *braille.Canvas) error
	Release() error
}

type State int

const (
	Idle State = iota
	Running
	Completed
	TimedOut
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case TimedOut:
		return "timed out"
	default:
		return "idle"
	}
}

// Stats describes the most recent run.
type Stats struct {
	Animation string
	State     State
	Frames    int
	Elapsed   time.Duration
}

// FrameInfo is passed to the frame hook after every flushed frame.
type FrameInfo struct {
	Index   int
	Delta   time.Duration // interval fed to Update
	Work    time.Duration // update + render + flush
	Elapsed time.Duration // since the run started
}

type Option func(*Player)

// WithFPS sets the target frame rate. Non-positive values are ignored.
func WithFPS(fps int) Option {
	return func(p *Player) {
		if fps > 0 {
			p.budget = time.Second / time.Duration(fps)
		}
	}
}

// WithFrameHook registers fn to observe every frame.
func WithFrameHook(fn func(FrameInfo)) Option {
	return func(p *Player) { p.hook = fn }
}

// Player drives animations against one surface. Each run allocates its
// own canvas sized to the surface.
type Player struct {
	surface Surface
	budget  time.Duration
	hook    func(FrameInfo)
	stats   Stats
	log     zerolog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func NewPlayer(s Surface, opts ...Option) *Player {
	p := &Player{
		surface: s,
		budget:  time.Second / DefaultFPS,
		log:     logging.For("player"),
		now:     time.Now,
		sleep:   sleepCtx,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open acquires a terminal surface on b and returns a player that owns it.
// The caller must Close the player.
func Open(b term.Backend, mode term.Mode, opts ...Option) (*Player, error) {
	s, err := term.Acquire(b, mode)
	if err != nil {
		return nil, err
	}
	return NewPlayer(s, opts...), nil
}

// Close releases the surface. It is safe to call more than once.
func (p *Player) Close() error {
	return p.surface.Release()
}

// FrameBudget is the nominal time slice of one frame.
func (p *Player) FrameBudget() time.Duration { return p.budget }

// Stats returns the statistics of the last run.
func (p *Player) Stats() Stats { return p.stats }

// Play runs a until its Update returns false. The final frame is drawn
// before returning.
func (p *Player) Play(ctx context.Context, a Animation) error {
	_, err := p.run(ctx, a, func(time.Duration) (State, bool) {
		return Running, false
	}, true)
	return err
}

// PlayFor runs a for d of wall-clock time. Update's return value is
// ignored: the animation can neither end early nor extend the run.
func (p *Player) PlayFor(ctx context.Context, a Animation, d time.Duration) error {
	if d < 0 {
		return ErrInvalidDuration
	}
	_, err := p.run(ctx, a, func(elapsed time.Duration) (State, bool) {
		if elapsed >= d {
			return Completed, true
		}
		return Running, false
	}, false)
	return err
}

// PlayUntil runs a until done reports true or timeout elapses, whichever
// comes first. It reports true when done won the race. The timeout is
// checked before done on every frame, and done is called at most once per
// frame. A timeout is not an error.
func (p *Player) PlayUntil(ctx context.Context, a Animation, timeout time.Duration, done func() bool) (bool, error) {
	if timeout < 0 {
		return false, ErrInvalidDuration
	}
	if done == nil {
		return false, ErrNilPredicate
	}
	state, err := p.run(ctx, a, func(elapsed time.Duration) (State, bool) {
		if elapsed >= timeout {
			return TimedOut, true
		}
		if done() {
			return Completed, true
		}
		return Running, false
	}, false)
	return state == Completed, err
}

// run is the shared frame loop. stop is consulted at the top of every
// frame; when untilDone is set the loop also ends after drawing the frame
// whose Update returned false.
func (p *Player) run(ctx context.Context, a Animation, stop func(elapsed time.Duration) (State, bool), untilDone bool) (State, error) {
	w, h := p.surface.Size()
	canvas := braille.NewCanvas(w, h)

	start := p.now()
	last := start
	p.stats = Stats{Animation: a.Name(), State: Running}

	finish := func(s State, err error) (State, error) {
		p.stats.State = s
		p.stats.Elapsed = p.now().Sub(start)
		var ev *zerolog.Event
		if err != nil {
			ev = p.log.Warn().Err(err)
		} else {
			ev = p.log.Debug()
		}
		ev.Str("animation", p.stats.Animation).
			Stringer("state", s).
			Int("frames", p.stats.Frames).
			Dur("elapsed", p.stats.Elapsed).
			Msg("playback finished")
		return s, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(Running, err)
		}

		now := p.now()
		if s, ok := stop(now.Sub(start)); ok {
			return finish(s, nil)
		}

		delta := now.Sub(last)
		last = now

		cont := a.Update(delta)
		canvas.Clear()
		a.Render(canvas)
		if err := p.surface.Flush(canvas); err != nil {
			return finish(Running, fmt.Errorf("anim: flush frame %d: %w", p.stats.Frames, err))
		}
		p.stats.Frames++

		work := p.now().Sub(now)
		if p.hook != nil {
			p.hook(FrameInfo{Index: p.stats.Frames - 1, Delta: delta, Work: work, Elapsed: now.Sub(start)})
		}

		if untilDone && !cont {
			return finish(Completed, nil)
		}

		// Overruns are not made up; the next frame simply starts late.
		if work < p.budget {
			p.sleep(ctx, p.budget-work)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
