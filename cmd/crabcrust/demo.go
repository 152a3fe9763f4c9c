package main

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/crabcrust/internal/anim"
	"github.com/san-kum/crabcrust/internal/effects"
	"github.com/san-kum/crabcrust/internal/term"
	"github.com/san-kum/crabcrust/internal/ui"
	"github.com/spf13/cobra"
)

var demoDuration time.Duration

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo [effect|all]",
		Short: "play built-in effects",
		Long: "Play one effect by name, or all of them in sequence. Without an\n" +
			"argument an interactive picker opens on a terminal.",
		Args: cobra.MaximumNArgs(1),
		RunE: runDemo,
	}
	cmd.Flags().DurationVarP(&demoDuration, "duration", "d", 0, "effect length (0 uses each effect's own)")
	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	reg := effects.NewRegistry()
	b := term.Stdio()

	switch {
	case len(args) == 0 && b.IsTerminal():
		return pickLoop(cmd, b, reg)
	case len(args) == 0 || args[0] == "all":
		_, err := playNames(cmd, b, reg, reg.List()...)
		return err
	default:
		if !reg.Has(args[0]) {
			_, err := reg.Get(args[0])
			return err
		}
		_, err := playNames(cmd, b, reg, args[0])
		return err
	}
}

// playNames plays the named effects back to back on one surface and
// returns the stats of the last one.
func playNames(cmd *cobra.Command, b *term.ANSI, reg *effects.Registry, names ...string) (anim.Stats, error) {
	p, err := openPlayer(b)
	if err != nil {
		return anim.Stats{}, err
	}
	defer term.RestoreOnPanic(p.Close)
	defer p.Close()

	keys := watchKeys(cmd.Context(), b)
	defer keys.Stop()

	for _, name := range names {
		a, err := reg.GetFor(name, demoDuration)
		if err != nil {
			return p.Stats(), err
		}
		if err := playOne(keys.Context(), p, a, demoDuration); err != nil {
			return p.Stats(), played(keys, err)
		}
	}
	return p.Stats(), p.Close()
}

func pickLoop(cmd *cobra.Command, b *term.ANSI, reg *effects.Registry) error {
	theme, _ := ui.GetTheme(cfg.Theme)
	items := make([]ui.Item, 0, len(reg.List()))
	for _, name := range reg.List() {
		items = append(items, ui.Item{Name: name, Summary: reg.Summary(name)})
	}

	for {
		name, err := ui.Pick("crabcrust demo", items, theme, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
		stats, err := playNames(cmd, b, reg, name)
		if err != nil {
			return err
		}
		fmt.Println(styles.Subtle.Render(fmt.Sprintf("played %s: %d frames in %s",
			name, stats.Frames, stats.Elapsed.Round(time.Millisecond))))
	}
}
