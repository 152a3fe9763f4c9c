package main

import (
	"context"
	"time"

	"github.com/san-kum/crabcrust/internal/anim"
	"github.com/san-kum/crabcrust/internal/term"
)

// endlessFor bounds animations that never finish on their own.
const endlessFor = 3 * time.Second

func surfaceMode(b term.Backend) (term.Mode, error) {
	if cfg.Fullscreen() {
		return term.Fullscreen(), nil
	}
	_, rows, err := b.Size()
	if err != nil {
		return term.Mode{}, err
	}
	return term.Inline(cfg.InlineHeight(rows)), nil
}

func openPlayer(b term.Backend, opts ...anim.Option) (*anim.Player, error) {
	m, err := surfaceMode(b)
	if err != nil {
		return nil, err
	}
	return anim.Open(b, m, append([]anim.Option{anim.WithFPS(cfg.FPS)}, opts...)...)
}

// playOne plays a to completion, or for d (endlessFor when zero) if a has
// no natural end.
func playOne(ctx context.Context, p *anim.Player, a anim.Animation, d time.Duration) error {
	if _, ok := a.Duration(); ok {
		return p.Play(ctx, a)
	}
	if d <= 0 {
		d = endlessFor
	}
	return p.PlayFor(ctx, a, d)
}

// watchKeys lets q, Esc and Ctrl-C stop fullscreen playback. Raw mode
// keeps the terminal from raising SIGINT on its own.
func watchKeys(ctx context.Context, b term.Backend) *term.KeyWatch {
	if !cfg.Fullscreen() {
		return term.WatchKeys(ctx, nil)
	}
	return term.Watch(ctx, b)
}

// played treats a q or Esc stop as a clean end of playback.
func played(keys *term.KeyWatch, err error) error {
	if err != nil && keys.Quit() {
		return nil
	}
	return err
}
