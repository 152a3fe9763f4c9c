package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/crabcrust/internal/anim"
	"github.com/san-kum/crabcrust/internal/effects"
	"github.com/san-kum/crabcrust/internal/term"
	"github.com/spf13/cobra"
)

var (
	benchFor    time.Duration
	benchWidth  int
	benchHeight int
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [effect|all]",
		Short: "measure per-frame render cost off screen",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	cmd.Flags().DurationVar(&benchFor, "time", 2*time.Second, "run time per effect")
	cmd.Flags().IntVar(&benchWidth, "width", 80, "surface width in cells")
	cmd.Flags().IntVar(&benchHeight, "height", 20, "surface height in cells")
	return cmd
}

type benchResult struct {
	name   string
	frames int
	work   []float64 // ms per frame
	avg    float64
	max    float64
	late   int
}

func runBench(cmd *cobra.Command, args []string) error {
	reg := effects.NewRegistry()
	names := reg.List()
	if len(args) == 1 && args[0] != "all" {
		if _, err := reg.Get(args[0]); err != nil {
			return err
		}
		names = []string{args[0]}
	}

	fmt.Printf("benchmarking %d effect(s) at %d fps on %dx%d cells\n\n", len(names), cfg.FPS, benchWidth, benchHeight)

	var results []benchResult
	for _, name := range names {
		r, err := benchOne(cmd, reg, name)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EFFECT\tFRAMES\tAVG MS\tMAX MS\tOVER BUDGET")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%d\n", r.name, r.frames, r.avg, r.max, r.late)
	}
	w.Flush()

	if len(results) == 1 && len(results[0].work) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(results[0].work,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(results[0].name+" frame work (ms)"),
		))
	}
	return nil
}

func benchOne(cmd *cobra.Command, reg *effects.Registry, name string) (benchResult, error) {
	a, err := reg.Get(name)
	if err != nil {
		return benchResult{}, err
	}

	r := benchResult{name: name}
	v := term.NewVirtual(benchWidth, benchHeight)
	var budget time.Duration
	p, err := anim.Open(v, term.Inline(benchHeight),
		anim.WithFPS(cfg.FPS),
		anim.WithFrameHook(func(fi anim.FrameInfo) {
			ms := float64(fi.Work) / float64(time.Millisecond)
			r.work = append(r.work, ms)
			r.avg += ms
			r.max = max(r.max, ms)
			if fi.Work > budget {
				r.late++
			}
		}),
	)
	if err != nil {
		return r, err
	}
	defer p.Close()
	budget = p.FrameBudget()

	if err := p.PlayFor(cmd.Context(), a, benchFor); err != nil {
		return r, err
	}
	r.frames = len(r.work)
	if r.frames > 0 {
		r.avg /= float64(r.frames)
	}
	return r, p.Close()
}
