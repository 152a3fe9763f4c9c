// Package convert turns GIFs and still images into braille frames.
package convert

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
	"github.com/san-kum/crabcrust/internal/logging"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWidth     = 64
	DefaultHeight    = 8
	DefaultThreshold = 128

	// MinFrameDuration keeps zero-delay GIFs from spinning at full speed.
	MinFrameDuration = 10 * time.Millisecond
	// StillDuration is the length given to a single-image frame.
	StillDuration = 100 * time.Millisecond
)

var (
	ErrNoFrames = errors.New("convert: no frames")
	ErrBadSize  = errors.New("convert: width and height must be positive")
)

type Options struct {
	Width     int // cells
	Height    int // cells
	Threshold uint8
	MaxFrames int // 0 keeps every frame
	Workers   int // 0 uses GOMAXPROCS
}

func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight, Threshold: DefaultThreshold}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, o.Width, o.Height)
	}
	return nil
}

// File converts an image file. GIFs yield one frame per GIF frame; PNG and
// JPEG files yield a single frame.
func File(ctx context.Context, path string, opts Options) ([]braille.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("convert: %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	if format == "gif" {
		return GIF(ctx, f, opts)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("convert: %s: %w", path, err)
	}
	return []braille.Frame{Image(img, opts, StillDuration)}, nil
}

// GIF decodes every frame of an animated GIF, composites it according to
// the frame disposal methods and converts the results in parallel.
func GIF(ctx context.Context, r io.Reader, opts Options) ([]braille.Frame, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("convert: decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}

	snapshots := composite(g, opts.MaxFrames)
	frames := make([]braille.Frame, len(snapshots))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, snap := range snapshots {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			frames[i] = Image(snap, opts, delay(g, i))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log := logging.For("convert")
	log.Debug().
		Int("frames", len(frames)).
		Int("width", opts.Width).
		Int("height", opts.Height).
		Msg("gif converted")
	return frames, nil
}

// delay converts the GIF delay of frame i, in hundredths of a second.
func delay(g *gif.GIF, i int) time.Duration {
	var d time.Duration
	if i < len(g.Delay) {
		d = time.Duration(g.Delay[i]) * 10 * time.Millisecond
	}
	return max(d, MinFrameDuration)
}

// composite replays the frames onto a full-size canvas and returns what is
// visible after each one.
func composite(g *gif.GIF, limit int) []*image.RGBA {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, fr := range g.Image {
			bounds = bounds.Union(fr.Bounds())
		}
	}

	n := len(g.Image)
	if limit > 0 && limit < n {
		n = limit
	}

	canvas := image.NewRGBA(bounds)
	out := make([]*image.RGBA, 0, n)
	for i := 0; i < n; i++ {
		fr := g.Image[i]
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var prev *image.RGBA
		if disposal == gif.DisposalPrevious {
			prev = clone(canvas)
		}

		draw.Draw(canvas, fr.Bounds(), fr, fr.Bounds().Min, draw.Over)
		out = append(out, clone(canvas))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, fr.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = prev
		}
	}
	return out
}

func clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// Image scales img to the dot resolution of the target size and sets every
// dot whose luminance reaches the threshold.
func Image(img image.Image, opts Options, d time.Duration) braille.Frame {
	c := braille.NewCanvas(opts.Width, opts.Height)
	dw, dh := c.DotWidth(), c.DotHeight()

	gray := image.NewGray(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	braille.BlitLuma(gray.Pix, dw, dh, opts.Threshold, c)
	return braille.FrameFromCanvas(c, d)
}
