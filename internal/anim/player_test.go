package anim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
	"github.com/san-kum/crabcrust/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when the player sleeps or a flush does work.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) { c.t = c.t.Add(d) }

type recordingSurface struct {
	w, h     int
	clock    *fakeClock
	work     time.Duration
	flushes  int
	failAt   int
	err      error
	released int
	empty    []bool
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }

func (s *recordingSurface) Flush(c *braille.Canvas) error {
	if s.err != nil && s.flushes == s.failAt {
		return s.err
	}
	s.flushes++
	if s.clock != nil {
		s.clock.t = s.clock.t.Add(s.work)
	}
	return nil
}

func (s *recordingSurface) Release() error {
	s.released++
	return nil
}

// counter is an animation that stops after limit updates and records
// every delta it receives.
type counter struct {
	limit   int
	updates int
	deltas  []time.Duration
	sawDirt *bool
}

func (c *counter) Update(dt time.Duration) bool {
	c.updates++
	c.deltas = append(c.deltas, dt)
	return c.updates < c.limit
}

func (c *counter) Render(cv *braille.Canvas) {
	if c.sawDirt != nil && !cv.IsEmpty(0, 0) {
		*c.sawDirt = true
	}
	cv.Set(0, 0)
}

func (c *counter) Name() string { return "counter" }

func (c *counter) Duration() (time.Duration, bool) { return 0, false }

func newTestPlayer(s *recordingSurface, opts ...Option) (*Player, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s.clock = clock
	p := NewPlayer(s, opts...)
	p.now = clock.now
	p.sleep = clock.sleep
	return p, clock
}

func TestPlayRunsToCompletion(t *testing.T) {
	s := &recordingSurface{w: 4, h: 2}
	p, _ := newTestPlayer(s)
	dirty := false
	a := &counter{limit: 5, sawDirt: &dirty}

	require.NoError(t, p.Play(context.Background(), a))

	assert.Equal(t, 5, a.updates)
	assert.Equal(t, 5, s.flushes, "the final frame is drawn")
	assert.False(t, dirty, "canvas is cleared before every render")

	st := p.Stats()
	assert.Equal(t, Completed, st.State)
	assert.Equal(t, 5, st.Frames)
	assert.Equal(t, "counter", st.Animation)
}

func TestPlayFeedsMeasuredDelta(t *testing.T) {
	s := &recordingSurface{w: 1, h: 1, work: 40 * time.Millisecond}
	p, _ := newTestPlayer(s, WithFPS(50))
	a := &counter{limit: 4}

	require.NoError(t, p.Play(context.Background(), a))

	// First frame has no predecessor; later frames overrun the 20ms budget
	// so no sleep happens and the delta equals the work time.
	assert.Equal(t, []time.Duration{0, 40 * time.Millisecond, 40 * time.Millisecond, 40 * time.Millisecond}, a.deltas)
}

func TestPlayPacesToBudget(t *testing.T) {
	s := &recordingSurface{w: 1, h: 1, work: 5 * time.Millisecond}
	p, _ := newTestPlayer(s, WithFPS(50))
	a := &counter{limit: 3}

	require.NoError(t, p.Play(context.Background(), a))

	assert.Equal(t, []time.Duration{0, 20 * time.Millisecond, 20 * time.Millisecond}, a.deltas)
}

func TestPlayForIgnoresUpdateResult(t *testing.T) {
	tests := []struct {
		name  string
		limit int
	}{
		{"wants to stop at once", 1},
		{"wants to run forever", 1 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &recordingSurface{w: 2, h: 2}
			p, _ := newTestPlayer(s, WithFPS(50))
			a := &counter{limit: tt.limit}
			d := 100 * time.Millisecond

			require.NoError(t, p.PlayFor(context.Background(), a, d))

			st := p.Stats()
			assert.Equal(t, Completed, st.State)
			assert.GreaterOrEqual(t, st.Elapsed, d)
			assert.Less(t, st.Elapsed, d+p.FrameBudget())
			assert.Equal(t, 5, st.Frames)
		})
	}
}

func TestPlayForWithSlowFrames(t *testing.T) {
	s := &recordingSurface{w: 2, h: 2, work: 7 * time.Millisecond}
	p, _ := newTestPlayer(s)
	d := 250 * time.Millisecond

	require.NoError(t, p.PlayFor(context.Background(), &counter{limit: 1}, d))

	st := p.Stats()
	assert.GreaterOrEqual(t, st.Elapsed, d)
	assert.Less(t, st.Elapsed, d+p.FrameBudget())
}

func TestPlayUntilPredicateWins(t *testing.T) {
	s := &recordingSurface{w: 2, h: 2}
	p, clock := newTestPlayer(s)
	start := clock.now()
	T := 100 * time.Millisecond
	calls := 0

	ok, err := p.PlayUntil(context.Background(), &counter{limit: 1}, 500*time.Millisecond, func() bool {
		calls++
		return clock.now().Sub(start) >= T
	})

	require.NoError(t, err)
	assert.True(t, ok)
	st := p.Stats()
	assert.Equal(t, Completed, st.State)
	assert.GreaterOrEqual(t, st.Elapsed, T)
	assert.Less(t, st.Elapsed, T+p.FrameBudget())
	assert.Equal(t, st.Frames+1, calls, "predicate is polled once per frame")
}

func TestPlayUntilTimesOut(t *testing.T) {
	s := &recordingSurface{w: 2, h: 2}
	p, _ := newTestPlayer(s)
	timeout := 300 * time.Millisecond
	calls := 0

	ok, err := p.PlayUntil(context.Background(), &counter{limit: 1}, timeout, func() bool {
		calls++
		return false
	})

	require.NoError(t, err, "a timeout is not an error")
	assert.False(t, ok)
	st := p.Stats()
	assert.Equal(t, TimedOut, st.State)
	assert.GreaterOrEqual(t, st.Elapsed, timeout)
	assert.Less(t, st.Elapsed, timeout+p.FrameBudget())
	assert.Equal(t, st.Frames, calls, "the timeout check comes before the predicate")
}

func TestPlayUntilAlreadyDone(t *testing.T) {
	s := &recordingSurface{w: 2, h: 2}
	p, _ := newTestPlayer(s)

	ok, err := p.PlayUntil(context.Background(), &counter{limit: 1}, time.Second, func() bool { return true })

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, s.flushes)
}

func TestFlushErrorAbortsRun(t *testing.T) {
	boom := errors.New("terminal gone")
	s := &recordingSurface{w: 2, h: 2, err: boom, failAt: 3}
	p, _ := newTestPlayer(s)
	a := &counter{limit: 100}

	err := p.Play(context.Background(), a)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, s.flushes)
	assert.Equal(t, 4, a.updates)

	_, err = p.PlayUntil(context.Background(), &counter{limit: 1}, time.Second, func() bool { return false })
	assert.ErrorIs(t, err, boom)
}

func TestContextCancellation(t *testing.T) {
	s := &recordingSurface{w: 2, h: 2}
	p, _ := newTestPlayer(s)
	ctx, cancel := context.WithCancel(context.Background())
	frames := 0
	p.hook = func(FrameInfo) {
		frames++
		if frames == 3 {
			cancel()
		}
	}

	err := p.Play(ctx, &counter{limit: 1 << 30})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, s.flushes)
}

func TestInvalidArguments(t *testing.T) {
	p := NewPlayer(&recordingSurface{w: 1, h: 1})

	assert.ErrorIs(t, p.PlayFor(context.Background(), &counter{}, -time.Second), ErrInvalidDuration)

	_, err := p.PlayUntil(context.Background(), &counter{}, -time.Second, func() bool { return true })
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = p.PlayUntil(context.Background(), &counter{}, time.Second, nil)
	assert.ErrorIs(t, err, ErrNilPredicate)
}

func TestFrameHook(t *testing.T) {
	s := &recordingSurface{w: 1, h: 1, work: 2 * time.Millisecond}
	var infos []FrameInfo
	p, _ := newTestPlayer(s, WithFrameHook(func(fi FrameInfo) { infos = append(infos, fi) }))

	require.NoError(t, p.Play(context.Background(), &counter{limit: 3}))

	require.Len(t, infos, 3)
	for i, fi := range infos {
		assert.Equal(t, i, fi.Index)
		assert.Equal(t, 2*time.Millisecond, fi.Work)
	}
}

func TestOpenOwnsSurface(t *testing.T) {
	v := term.NewVirtual(10, 10)
	p, err := Open(v, term.Inline(3), WithFPS(200))
	require.NoError(t, err)
	assert.False(t, v.CursorVisible())

	require.NoError(t, p.Play(context.Background(), &counter{limit: 2}))
	assert.Equal(t, '⠁', v.CellAt(0, 0).Rune)
	assert.Equal(t, '⠀', v.CellAt(1, 0).Rune)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, v.CursorVisible())
	assert.Equal(t, "", v.Line(0))
}

func TestRealClockPlayFor(t *testing.T) {
	if testing.Short() {
		t.Skip("uses wall-clock time")
	}
	v := term.NewVirtual(8, 4)
	p, err := Open(v, term.Fullscreen())
	require.NoError(t, err)
	defer p.Close()

	d := 120 * time.Millisecond
	start := time.Now()
	require.NoError(t, p.PlayFor(context.Background(), &counter{limit: 1}, d))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, d)
	assert.Less(t, elapsed, d+p.FrameBudget()+50*time.Millisecond)
}
