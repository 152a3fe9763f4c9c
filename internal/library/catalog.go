// Package library is the catalog of pre-rendered dot matrix clips and
// the loader that converts and caches them.
package library

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

var ErrNotFound = errors.New("library: clip not found")

type Clip struct {
	Name        string   `yaml:"name"`
	File        string   `yaml:"file"`
	Description string   `yaml:"description"`
	Frames      int      `yaml:"frames"`
	Tags        []string `yaml:"tags"`
	Theme       string   `yaml:"theme"`
	Commands    []string `yaml:"commands"`
}

func (c Clip) HasTag(tag string) bool { return slices.Contains(c.Tags, tag) }

type Catalog struct {
	Clips []Clip `yaml:"clips"`
}

// Builtin returns the catalog compiled into the binary.
func Builtin() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("library: embedded catalog: %v", err))
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("library: parse catalog: %w", err)
	}
	seen := make(map[string]bool, len(c.Clips))
	for _, clip := range c.Clips {
		if clip.Name == "" || clip.File == "" {
			return nil, fmt.Errorf("library: clip needs a name and a file: %+v", clip)
		}
		if seen[clip.Name] {
			return nil, fmt.Errorf("library: duplicate clip %q", clip.Name)
		}
		seen[clip.Name] = true
	}
	return &c, nil
}

func (c *Catalog) List() []Clip { return slices.Clone(c.Clips) }

func (c *Catalog) Names() []string {
	names := make([]string, len(c.Clips))
	for i, clip := range c.Clips {
		names[i] = clip.Name
	}
	return names
}

func (c *Catalog) ByTag(tag string) []Clip {
	var out []Clip
	for _, clip := range c.Clips {
		if clip.HasTag(tag) {
			out = append(out, clip)
		}
	}
	return out
}

func (c *Catalog) ByTheme(theme string) []Clip {
	var out []Clip
	for _, clip := range c.Clips {
		if strings.EqualFold(clip.Theme, theme) {
			out = append(out, clip)
		}
	}
	return out
}

// Tags counts clips per tag.
func (c *Catalog) Tags() map[string]int {
	out := make(map[string]int)
	for _, clip := range c.Clips {
		for _, tag := range clip.Tags {
			out[tag]++
		}
	}
	return out
}

// Themes counts clips per theme.
func (c *Catalog) Themes() map[string]int {
	out := make(map[string]int)
	for _, clip := range c.Clips {
		out[clip.Theme]++
	}
	return out
}

// SortedKeys returns the keys of a Tags or Themes result in order.
func SortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Find looks a clip up by name. The error names the closest match when
// there is one.
func (c *Catalog) Find(name string) (Clip, error) {
	for _, clip := range c.Clips {
		if clip.Name == name {
			return clip, nil
		}
	}
	if matches := fuzzy.Find(name, c.Names()); len(matches) > 0 {
		return Clip{}, fmt.Errorf("%w: %s (did you mean %s?)", ErrNotFound, name, matches[0].Str)
	}
	return Clip{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// ForCommand returns the clip mapped to a git subcommand.
func (c *Catalog) ForCommand(command string) (Clip, bool) {
	for _, clip := range c.Clips {
		if slices.Contains(clip.Commands, command) {
			return clip, true
		}
	}
	return Clip{}, false
}
