package library

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
	"github.com/san-kum/crabcrust/internal/convert"
	"github.com/san-kum/crabcrust/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGIF(t *testing.T, path string, frames int) {
	t.Helper()
	pal := color.Palette{color.Black, color.White}
	g := &gif.GIF{Config: image.Config{ColorModel: pal, Width: 4, Height: 4}}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
		img.SetColorIndex(i%4, 0, 1)
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 3)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func testLoader(t *testing.T) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()
	cat, err := Parse([]byte("clips:\n  - {name: blip, file: blip.gif, commands: [push]}\n"))
	require.NoError(t, err)

	l := NewLoader(cat, dir, store.New(filepath.Join(dir, "cache")))
	l.Options = convert.Options{Width: 2, Height: 1, Threshold: 128}
	return l, dir
}

func TestLoaderConvertsAndCaches(t *testing.T) {
	l, dir := testLoader(t)
	writeGIF(t, filepath.Join(dir, "blip.gif"), 3)
	clip, err := l.Catalog.Find("blip")
	require.NoError(t, err)
	assert.True(t, l.Available(clip))

	frames, err := l.Frames(context.Background(), clip)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, 30*time.Millisecond, frames[0].Duration)

	meta, err := l.Cache.Load("blip")
	require.NoError(t, err)
	assert.Equal(t, 3, meta.Frames)

	// Same size and mtime but undecodable: only a cache hit can succeed.
	src := l.Path(clip)
	info, err := os.Stat(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, bytes.Repeat([]byte{'x'}, int(info.Size())), 0644))
	require.NoError(t, os.Chtimes(src, info.ModTime(), info.ModTime()))

	again, err := l.Frames(context.Background(), clip)
	require.NoError(t, err)
	assert.Equal(t, frames, again)
}

func TestLoaderReconvertsStaleCache(t *testing.T) {
	l, dir := testLoader(t)
	src := filepath.Join(dir, "blip.gif")
	writeGIF(t, src, 2)
	clip, _ := l.Catalog.Find("blip")

	_, err := l.Frames(context.Background(), clip)
	require.NoError(t, err)

	writeGIF(t, src, 4)
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(src, later, later))

	frames, err := l.Frames(context.Background(), clip)
	require.NoError(t, err)
	assert.Len(t, frames, 4)
}

func TestLoaderMissingFile(t *testing.T) {
	l, _ := testLoader(t)
	clip, _ := l.Catalog.Find("blip")
	assert.False(t, l.Available(clip))

	_, err := l.Frames(context.Background(), clip)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoaderForCommand(t *testing.T) {
	l, dir := testLoader(t)
	writeGIF(t, filepath.Join(dir, "blip.gif"), 2)

	a, err := l.ForCommand(context.Background(), "push")
	require.NoError(t, err)
	assert.Equal(t, "blip", a.Name())
	assert.Equal(t, 2, a.FrameCount())
	d, ok := a.Duration()
	assert.True(t, ok)
	assert.Equal(t, 60*time.Millisecond, d)

	c := braille.NewCanvas(2, 1)
	a.Render(c)
	col, colored := c.Color(0, 0)
	assert.True(t, colored)
	assert.Equal(t, Amber, col)

	_, err = l.ForCommand(context.Background(), "rebase")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoaderWithoutCache(t *testing.T) {
	l, dir := testLoader(t)
	l.Cache = nil
	writeGIF(t, filepath.Join(dir, "blip.gif"), 1)
	clip, _ := l.Catalog.Find("blip")

	frames, err := l.Frames(context.Background(), clip)
	require.NoError(t, err)
	assert.Len(t, frames, 1)
}
