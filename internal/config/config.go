package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS         = 60
	DefaultThreshold   = 128
	DefaultInlineRatio = 3
	DefaultInlineMin   = 15
	DefaultInlineMax   = 40
	DefaultTheme       = "arcade"
	DefaultLibraryDir  = "ref"
	DefaultSpinnerLead = 500 * time.Millisecond
	ModeInline         = "inline"
	ModeFullscreen     = "fullscreen"
	appName            = "crabcrust"
	configFileName     = "config.yaml"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	FPS        int                `yaml:"fps"`
	Mode       string             `yaml:"mode"`
	Inline     InlineConfig       `yaml:"inline"`
	Threshold  int                `yaml:"threshold"`
	Theme      string             `yaml:"theme"`
	LogLevel   int                `yaml:"log_level"`
	LibraryDir string             `yaml:"library_dir"`
	Spinner    time.Duration      `yaml:"spinner"`
	Default    Profile            `yaml:"default"`
	Commands   map[string]Profile `yaml:"commands"`
}

// InlineConfig sizes the inline region as rows/Ratio clamped to [Min, Max].
type InlineConfig struct {
	Ratio int `yaml:"ratio"`
	Min   int `yaml:"min"`
	Max   int `yaml:"max"`
}

func DefaultConfig() *Config {
	return &Config{
		FPS:  DefaultFPS,
		Mode: ModeInline,
		Inline: InlineConfig{
			Ratio: DefaultInlineRatio,
			Min:   DefaultInlineMin,
			Max:   DefaultInlineMax,
		},
		Threshold:  DefaultThreshold,
		Theme:      DefaultTheme,
		LibraryDir: DefaultLibraryDir,
		Spinner:    DefaultSpinnerLead,
		Default:    DefaultProfile,
		Commands:   defaultCommands(),
	}
}

// Path is the default location of the config file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.fillProfiles()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	case c.Mode != ModeInline && c.Mode != ModeFullscreen:
		return fmt.Errorf("%w: mode must be %q or %q, got %q", ErrInvalid, ModeInline, ModeFullscreen, c.Mode)
	case c.Inline.Ratio <= 0:
		return fmt.Errorf("%w: inline.ratio must be positive", ErrInvalid)
	case c.Inline.Min <= 0 || c.Inline.Max < c.Inline.Min:
		return fmt.Errorf("%w: inline bounds [%d, %d]", ErrInvalid, c.Inline.Min, c.Inline.Max)
	case c.Threshold < 0 || c.Threshold > 255:
		return fmt.Errorf("%w: threshold must be in [0, 255], got %d", ErrInvalid, c.Threshold)
	case c.Spinner < 0:
		return fmt.Errorf("%w: spinner must not be negative", ErrInvalid)
	}
	for name, p := range c.Commands {
		if p.Timeout < 0 {
			return fmt.Errorf("%w: commands.%s.timeout must not be negative", ErrInvalid, name)
		}
	}
	return nil
}

// Fullscreen reports whether animations take over the whole terminal.
func (c *Config) Fullscreen() bool { return c.Mode == ModeFullscreen }

// InlineHeight is the number of rows to reserve on a terminal rows tall.
func (c *Config) InlineHeight(rows int) int {
	h := rows / c.Inline.Ratio
	return max(c.Inline.Min, min(h, c.Inline.Max))
}

// Profile returns the profile for a git subcommand, or the default one.
func (c *Config) Profile(sub string) Profile {
	if p, ok := c.Commands[sub]; ok {
		return p
	}
	return c.Default
}

// fillProfiles restores list fields of built-in profiles that a partial
// file override left empty.
func (c *Config) fillProfiles() {
	if c.Commands == nil {
		c.Commands = defaultCommands()
		return
	}
	for name, def := range defaultCommands() {
		p, ok := c.Commands[name]
		if !ok {
			continue
		}
		if p.Timeout == 0 {
			p.Timeout = def.Timeout
		}
		if p.Success == nil {
			p.Success = def.Success
		}
		c.Commands[name] = p
	}
}
