package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/crabcrust/internal/config"
	"github.com/san-kum/crabcrust/internal/logging"
	"github.com/san-kum/crabcrust/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    int
	fps        int
	fullscreen bool

	cfg    *config.Config
	styles ui.Styles
)

// exitError carries a wrapped command's exit code out of cobra.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	rootCmd := &cobra.Command{
		Use:           "crabcrust",
		Short:         "braille animations for your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", config.DefaultFPS, "target frame rate")
	rootCmd.PersistentFlags().BoolVar(&fullscreen, "fullscreen", false, "take over the whole terminal")

	rootCmd.AddCommand(
		newGitCmd(),
		newDemoCmd(),
		newBenchCmd(),
		newConvertCmd(),
		newLibraryCmd(),
		newConfigCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	var exit exitError
	switch {
	case errors.As(err, &exit):
		os.Exit(exit.code)
	case errors.Is(err, context.Canceled):
		os.Exit(130)
	case err != nil:
		fmt.Fprintln(os.Stderr, styles.Error.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// setup loads the config, applies flag overrides and starts logging.
func setup(cmd *cobra.Command) error {
	path := configFile
	if path == "" {
		path = config.Path()
	}
	var err error
	if configFile != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("fullscreen") && fullscreen {
		cfg.Mode = config.ModeFullscreen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(max(verbose, cfg.LogLevel))
	styles = resolveStyles(cfg.Theme)
	return nil
}

// resolveStyles falls back to the arcade theme for unknown names.
func resolveStyles(name string) ui.Styles {
	theme, ok := ui.GetTheme(name)
	if !ok {
		log := logging.For("cli")
		log.Warn().Str("theme", name).Msg("unknown theme, using arcade")
	}
	return ui.NewStyles(theme)
}
