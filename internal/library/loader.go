package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/san-kum/crabcrust/internal/braille"
	"github.com/san-kum/crabcrust/internal/convert"
	"github.com/san-kum/crabcrust/internal/effects"
	"github.com/san-kum/crabcrust/internal/logging"
	"github.com/san-kum/crabcrust/internal/store"
)

// DMD clips are wide and short; this size keeps most of their detail.
const (
	DMDWidth     = 124
	DMDHeight    = 19
	DMDThreshold = 50
)

// Amber is the colour of a pinball plasma display.
var Amber = braille.RGB(255, 140, 0)

// Loader resolves clips to files under Dir, converts them and keeps the
// result in Cache. A nil Cache disables caching.
type Loader struct {
	Catalog *Catalog
	Dir     string
	Cache   *store.Store
	Options convert.Options

	log zerolog.Logger
}

func NewLoader(c *Catalog, dir string, cache *store.Store) *Loader {
	return &Loader{
		Catalog: c,
		Dir:     dir,
		Cache:   cache,
		Options: convert.Options{Width: DMDWidth, Height: DMDHeight, Threshold: DMDThreshold},
		log:     logging.For("library"),
	}
}

// Path is where the clip's source file is expected.
func (l *Loader) Path(clip Clip) string {
	if filepath.IsAbs(clip.File) {
		return clip.File
	}
	return filepath.Join(l.Dir, clip.File)
}

// Available reports whether the clip's source file exists.
func (l *Loader) Available(clip Clip) bool {
	_, err := os.Stat(l.Path(clip))
	return err == nil
}

// Frames returns the converted frames of clip, from the cache when it is
// still fresh.
func (l *Loader) Frames(ctx context.Context, clip Clip) ([]braille.Frame, error) {
	path := l.Path(clip)
	o := l.Options

	if l.Cache != nil && l.Cache.Fresh(clip.Name, path, o.Width, o.Height, int(o.Threshold)) {
		frames, err := l.Cache.LoadFrames(clip.Name)
		if err == nil {
			l.log.Debug().Str("clip", clip.Name).Int("frames", len(frames)).Msg("cache hit")
			return frames, nil
		}
		l.log.Warn().Err(err).Str("clip", clip.Name).Msg("cache unreadable, converting again")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("library: %s: %w", clip.Name, err)
	}
	frames, err := convert.File(ctx, path, o)
	if err != nil {
		return nil, fmt.Errorf("library: %s: %w", clip.Name, err)
	}

	if l.Cache != nil {
		meta := store.ClipMetadata{
			Name:       clip.Name,
			Source:     path,
			SourceSize: info.Size(),
			SourceMod:  info.ModTime(),
			Threshold:  int(o.Threshold),
		}
		if err := l.Cache.Save(meta, frames); err != nil {
			l.log.Warn().Err(err).Str("clip", clip.Name).Msg("caching frames failed")
		}
	}
	return frames, nil
}

// Animation wraps the clip's frames in a playable animation tinted amber.
func (l *Loader) Animation(ctx context.Context, clip Clip, loop bool) (*effects.FrameAnimation, error) {
	frames, err := l.Frames(ctx, clip)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("library: %s: %w", clip.Name, convert.ErrNoFrames)
	}
	return effects.NewFrameAnimation(clip.Name, loop, frames...).Tint(Amber), nil
}

// ForCommand loads the clip mapped to a git subcommand. It returns
// ErrNotFound when the command has no clip.
func (l *Loader) ForCommand(ctx context.Context, command string) (*effects.FrameAnimation, error) {
	clip, ok := l.Catalog.ForCommand(command)
	if !ok {
		return nil, fmt.Errorf("%w: no clip for %q", ErrNotFound, command)
	}
	return l.Animation(ctx, clip, false)
}
