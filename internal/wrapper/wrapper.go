package wrapper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"
	"github.com/san-kum/crabcrust/internal/anim"
	"github.com/san-kum/crabcrust/internal/config"
	"github.com/san-kum/crabcrust/internal/effects"
	"github.com/san-kum/crabcrust/internal/executor"
	"github.com/san-kum/crabcrust/internal/library"
	"github.com/san-kum/crabcrust/internal/logging"
	"github.com/san-kum/crabcrust/internal/term"
	"github.com/san-kum/crabcrust/internal/ui"
)

// StillRunning is printed when the spinner times out before the command.
const StillRunning = "Command is taking longer than expected, still running..."

// ExitFailure is returned as exit code when the command never produced one.
const ExitFailure = 1

type Option func(*Wrapper)

func WithExecutor(e *executor.Executor) Option {
	return func(w *Wrapper) { w.exec = e }
}

func WithRegistry(r *effects.Registry) Option {
	return func(w *Wrapper) { w.effects = r }
}

// WithLibrary enables DMD clips for profiles that ask for them.
func WithLibrary(l *library.Loader) Option {
	return func(w *Wrapper) { w.library = l }
}

func WithRand(r *rand.Rand) Option {
	return func(w *Wrapper) { w.rand = r }
}

func WithTheme(t ui.Theme) Option {
	return func(w *Wrapper) { w.styles = ui.NewStyles(t) }
}

// WithPlayerOptions are passed to every player the wrapper opens.
func WithPlayerOptions(opts ...anim.Option) Option {
	return func(w *Wrapper) { w.playerOpts = append(w.playerOpts, opts...) }
}

// Wrapper owns the terminal while a wrapped command runs. Messages and
// the command's output are written to out once the surface is released.
type Wrapper struct {
	backend    term.Backend
	out        io.Writer
	cfg        *config.Config
	exec       *executor.Executor
	effects    *effects.Registry
	library    *library.Loader
	rand       *rand.Rand
	styles     ui.Styles
	playerOpts []anim.Option
	log        zerolog.Logger
}

func New(b term.Backend, out io.Writer, cfg *config.Config, opts ...Option) *Wrapper {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	theme, _ := ui.GetTheme(cfg.Theme)
	w := &Wrapper{
		backend:    b,
		out:        out,
		cfg:        cfg,
		exec:       executor.New(),
		effects:    effects.NewRegistry(),
		rand:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		styles:     ui.NewStyles(theme),
		playerOpts: []anim.Option{anim.WithFPS(cfg.FPS)},
		log:        logging.For("wrapper"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Git runs git with args.
func (w *Wrapper) Git(ctx context.Context, args []string) (int, error) {
	return w.Run(ctx, "git", args)
}

// Run runs name with args under the profile of its subcommand and
// returns the command's exit code.
func (w *Wrapper) Run(ctx context.Context, name string, args []string) (int, error) {
	sub := Subcommand(args)
	profile := w.cfg.Profile(sub)
	w.log.Info().
		Str("command", name).
		Str("subcommand", sub).
		Dur("timeout", profile.Timeout).
		Bool("concurrent", profile.Concurrent()).
		Msg("wrapping command")

	// Raw mode swallows SIGINT, so fullscreen listens for stop keys itself.
	if w.cfg.Fullscreen() {
		keys := term.Watch(ctx, w.backend)
		defer keys.Stop()
		ctx = keys.Context()
	}

	if profile.Concurrent() {
		return w.runConcurrent(ctx, name, args, sub, profile)
	}
	return w.runSequential(ctx, name, args, sub, profile)
}

// skipped reports whether the user dismissed the animation with q or Esc.
// The command still runs to completion.
func skipped(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), term.ErrQuit)
}

func (w *Wrapper) mode() (term.Mode, error) {
	if w.cfg.Fullscreen() {
		return term.Fullscreen(), nil
	}
	return term.AutoInline(w.backend, w.cfg.Inline.Ratio, w.cfg.Inline.Min, w.cfg.Inline.Max)
}

func (w *Wrapper) open() (*anim.Player, error) {
	m, err := w.mode()
	if err != nil {
		return nil, fmt.Errorf("wrapper: terminal size: %w", err)
	}
	return anim.Open(w.backend, m, w.playerOpts...)
}

func (w *Wrapper) runConcurrent(ctx context.Context, name string, args []string, sub string, profile config.Profile) (int, error) {
	// Spawn first: a command that cannot start gets no animation.
	h, err := w.exec.RunConcurrent(name, args...)
	if err != nil {
		return ExitFailure, err
	}

	p, err := w.open()
	if err != nil {
		return w.finish(nil, h, err)
	}

	finished, err := p.PlayUntil(ctx, effects.NewSpinner(), profile.Timeout, h.IsDone)
	if err != nil {
		if skipped(ctx) {
			w.log.Info().Str("subcommand", sub).Msg("animation dismissed")
			return w.finish(p, h, nil)
		}
		return w.finish(p, h, err)
	}

	if !finished {
		w.log.Info().Str("subcommand", sub).Dur("timeout", profile.Timeout).Msg("spinner timed out")
		if err := p.Close(); err != nil {
			return w.finish(nil, h, err)
		}
		w.println(w.styles.Warning.Render(StillRunning))

		p, err = w.open()
		if err != nil {
			return w.finish(nil, h, err)
		}
	}

	res, err := h.Wait()
	if err != nil {
		return w.finish(p, nil, err)
	}
	if res.Success && ctx.Err() == nil {
		if err := w.celebrate(ctx, p, sub, profile); err != nil {
			w.log.Warn().Err(err).Msg("success animation failed")
		}
	}
	if err := p.Close(); err != nil {
		w.log.Warn().Err(err).Msg("releasing terminal")
	}
	return w.report(res), nil
}

// finish releases p, reaps h when it is still pending and returns err
// alongside whatever exit code the command produced.
func (w *Wrapper) finish(p *anim.Player, h *executor.Handle, err error) (int, error) {
	if p != nil {
		err = errors.Join(err, p.Close())
	}
	if h == nil {
		return ExitFailure, err
	}
	res, werr := h.Wait()
	if werr != nil {
		return ExitFailure, errors.Join(err, werr)
	}
	return w.report(res), err
}

func (w *Wrapper) runSequential(ctx context.Context, name string, args []string, sub string, profile config.Profile) (int, error) {
	p, err := w.open()
	if err != nil {
		return ExitFailure, err
	}
	defer p.Close()

	if err := p.PlayFor(ctx, effects.NewSpinner(), w.cfg.Spinner); err != nil && !skipped(ctx) {
		return ExitFailure, err
	}

	res, err := w.exec.Run(name, args...)
	if err != nil {
		return ExitFailure, err
	}

	switch {
	case skipped(ctx):
		err = nil
	case res.Success:
		err = w.celebrate(ctx, p, sub, profile)
	default:
		err = p.PlayFor(ctx, effects.NewSpinner(), w.cfg.Spinner)
	}
	if err != nil {
		w.log.Warn().Err(err).Msg("closing animation failed")
	}
	if err := p.Close(); err != nil {
		w.log.Warn().Err(err).Msg("releasing terminal")
	}
	return w.report(res), nil
}

// celebrate plays the library clip for sub when the profile asks for one
// and it can be loaded, otherwise a random effect from the profile.
func (w *Wrapper) celebrate(ctx context.Context, p *anim.Player, sub string, profile config.Profile) error {
	if profile.DMD && w.library != nil {
		clip, err := w.library.ForCommand(ctx, sub)
		if err == nil {
			w.log.Debug().Str("clip", clip.Name()).Msg("playing library clip")
			return p.Play(ctx, clip)
		}
		w.log.Debug().Err(err).Str("subcommand", sub).Msg("no library clip")
	}

	name := w.pick(profile.Success)
	if name == "" {
		return nil
	}
	a, err := w.effects.Get(name)
	if err != nil {
		return err
	}
	return p.Play(ctx, a)
}

func (w *Wrapper) pick(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[w.rand.IntN(len(names))]
}

func (w *Wrapper) report(res executor.Result) int {
	if out := res.CombinedOutput(); out != "" {
		w.print(out)
		if !strings.HasSuffix(out, "\n") {
			w.print("\n")
		}
	}
	if res.ExitCode < 0 {
		return ExitFailure
	}
	return res.ExitCode
}

func (w *Wrapper) print(s string) {
	if _, err := io.WriteString(w.out, s); err != nil {
		w.log.Warn().Err(err).Msg("writing output")
	}
}

func (w *Wrapper) println(s string) { w.print(s + "\n") }

// git options that consume the following argument.
var valueFlags = map[string]bool{
	"-C": true, "-c": true,
	"--git-dir": true, "--work-tree": true, "--namespace": true,
	"--super-prefix": true, "--config-env": true,
}

// Subcommand returns the first argument that is not a global option, or
// "" when there is none.
func Subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			return a
		}
		if valueFlags[a] {
			i++
		}
	}
	return ""
}
