package main

import (
	"os"

	"github.com/san-kum/crabcrust/internal/effects"
	"github.com/san-kum/crabcrust/internal/library"
	"github.com/san-kum/crabcrust/internal/store"
	"github.com/san-kum/crabcrust/internal/term"
	"github.com/san-kum/crabcrust/internal/ui"
	"github.com/san-kum/crabcrust/internal/wrapper"
	"github.com/spf13/cobra"
)

func newGitCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "git [args...]",
		Short:              "run git with animations",
		DisableFlagParsing: true,
		RunE:               runGit,
	}
}

func runGit(cmd *cobra.Command, args []string) error {
	theme, _ := ui.GetTheme(cfg.Theme)
	w := wrapper.New(term.Stdio(), os.Stdout, cfg,
		wrapper.WithRegistry(effects.NewRegistry()),
		wrapper.WithLibrary(newLoader()),
		wrapper.WithTheme(theme),
	)

	code, err := w.Git(cmd.Context(), args)
	if err != nil {
		return err
	}
	if code != 0 {
		return exitError{code: code}
	}
	return nil
}

func newLoader() *library.Loader {
	return library.NewLoader(library.Builtin(), cfg.LibraryDir, store.New(store.DefaultDir()))
}
