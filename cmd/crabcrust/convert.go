package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/crabcrust/internal/braille"
	"github.com/san-kum/crabcrust/internal/convert"
	"github.com/san-kum/crabcrust/internal/effects"
	"github.com/san-kum/crabcrust/internal/store"
	"github.com/san-kum/crabcrust/internal/term"
	"github.com/spf13/cobra"
)

var (
	convWidth     int
	convHeight    int
	convThreshold int
	convMaxFrames int
	convPlay      bool
	convLoop      bool
	convSave      string
	convExport    string
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [image]",
		Short: "convert a GIF, PNG or JPEG to braille frames",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}
	cmd.Flags().IntVarP(&convWidth, "width", "w", convert.DefaultWidth, "width in cells")
	cmd.Flags().IntVarP(&convHeight, "height", "H", convert.DefaultHeight, "height in cells")
	cmd.Flags().IntVarP(&convThreshold, "threshold", "t", convert.DefaultThreshold, "luminance threshold (0-255)")
	cmd.Flags().IntVar(&convMaxFrames, "max-frames", 0, "keep only the first N frames")
	cmd.Flags().BoolVar(&convPlay, "play", false, "play the result")
	cmd.Flags().BoolVar(&convLoop, "loop", false, "loop playback until interrupted")
	cmd.Flags().StringVar(&convSave, "save", "", "store the frames in the cache under this name")
	cmd.Flags().StringVar(&convExport, "export", "", "write the frames as JSON to this file")
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !cmd.Flags().Changed("threshold") {
		convThreshold = cfg.Threshold
	}
	if convThreshold < 0 || convThreshold > 255 {
		return fmt.Errorf("threshold must be within 0-255, got %d", convThreshold)
	}
	opts := convert.Options{
		Width:     convWidth,
		Height:    convHeight,
		Threshold: uint8(convThreshold),
		MaxFrames: convMaxFrames,
	}

	start := time.Now()
	frames, err := convert.File(cmd.Context(), path, opts)
	if err != nil {
		return err
	}
	var total time.Duration
	for _, f := range frames {
		total += f.Duration
	}
	fmt.Printf("%s %d frames, %dx%d cells, %s of animation (converted in %s)\n",
		styles.Success.Render("converted"), len(frames), opts.Width, opts.Height,
		total.Round(time.Millisecond), time.Since(start).Round(time.Millisecond))

	name := convSave
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if convSave != "" {
		if err := saveFrames(path, name, opts, frames); err != nil {
			return err
		}
	}
	if convExport != "" {
		if err := store.ExportJSON(convExport, name, frames); err != nil {
			return err
		}
		fmt.Println(styles.Field("exported", 9, convExport))
	}

	if convPlay {
		return playFrames(cmd, name, frames, convLoop)
	}
	return nil
}

func saveFrames(path, name string, opts convert.Options, frames []braille.Frame) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	st := store.New(store.DefaultDir())
	meta := store.ClipMetadata{
		Name:       name,
		Source:     abs,
		SourceSize: info.Size(),
		SourceMod:  info.ModTime(),
		Threshold:  int(opts.Threshold),
	}
	if err := st.Save(meta, frames); err != nil {
		return err
	}
	fmt.Println(styles.Field("saved", 9, filepath.Join(st.Dir(), name)))
	return nil
}

func playFrames(cmd *cobra.Command, name string, frames []braille.Frame, loop bool) error {
	b := term.Stdio()
	p, err := openPlayer(b)
	if err != nil {
		return err
	}
	defer term.RestoreOnPanic(p.Close)
	defer p.Close()

	keys := watchKeys(cmd.Context(), b)
	defer keys.Stop()

	if err := p.Play(keys.Context(), effects.NewFrameAnimation(name, loop, frames...)); err != nil {
		return played(keys, err)
	}
	return p.Close()
}
