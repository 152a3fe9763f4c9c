package effects

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/san-kum/crabcrust/internal/anim"
)

var ErrUnknown = errors.New("effects: unknown animation")

// Factory builds a fresh animation. d of zero selects the effect's own
// default length; endless effects ignore it.
type Factory func(d time.Duration) anim.Animation

type entry struct {
	build   Factory
	summary string
}

type Registry struct {
	entries map[string]entry
}

// NewRegistry returns a registry preloaded with the built-in effects.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]entry)}

	r.Register("spinner", "rotating arc shown while a command runs", func(time.Duration) anim.Animation { return NewSpinner() })
	r.Register("save", "floppy disk fills and gets a tick", func(d time.Duration) anim.Animation { return NewSave(d) })
	r.Register("rocket", "lift-off through a star field", func(d time.Duration) anim.Animation { return NewRocket(d) })
	r.Register("download", "arrows stream into a filling tray", func(d time.Duration) anim.Animation { return NewDownload(d) })
	r.Register("merge", "feature branch curves into main", func(d time.Duration) anim.Animation { return NewMerge(d) })
	r.Register("confetti", "coloured confetti with a ring of stars", func(d time.Duration) anim.Animation { return NewConfetti(d) })
	r.Register("fireworks", "staggered volley of five shells", func(d time.Duration) anim.Animation { return NewFireworks(d) })
	r.Register("matrix", "green digital rain", func(d time.Duration) anim.Animation { return NewMatrixRain(d) })
	r.Register("trophy", "gold cup crowned with a star", func(d time.Duration) anim.Animation { return NewTrophy(d) })
	r.Register("rabbit", "rabbit hops past with a pocket watch", func(d time.Duration) anim.Animation { return NewRabbit(d) })
	r.Register("baby", "stork delivers a bundle under confetti", func(d time.Duration) anim.Animation { return NewBaby(d) })

	return r
}

// Register adds or replaces the effect called name.
func (r *Registry) Register(name, summary string, f Factory) {
	r.entries[strings.ToLower(name)] = entry{build: f, summary: summary}
}

// Get builds the named effect with its default length.
func (r *Registry) Get(name string) (anim.Animation, error) {
	return r.GetFor(name, 0)
}

// GetFor builds the named effect running for d.
func (r *Registry) GetFor(name string, d time.Duration) (anim.Animation, error) {
	e, ok := r.entries[strings.ToLower(name)]
	if !ok {
		if s := r.Suggest(name); len(s) > 0 {
			return nil, fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknown, name, s[0])
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return e.build(d), nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.entries[strings.ToLower(name)]
	return ok
}

// Summary returns the one-line description of name.
func (r *Registry) Summary(name string) string {
	return r.entries[strings.ToLower(name)].summary
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest returns registered names that fuzzy-match name, best first.
func (r *Registry) Suggest(name string) []string {
	matches := fuzzy.Find(strings.ToLower(name), r.List())
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}
