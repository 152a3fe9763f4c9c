package config

import (
	"slices"
	"time"
)

// Profile decides how one git subcommand is animated.
type Profile struct {
	// Timeout bounds the spinner shown while the command runs in the
	// background. Zero selects the synchronous flow: a short spinner,
	// then the command in the foreground.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// Success lists effects to pick from when the command succeeds.
	Success []string `yaml:"success,omitempty"`
	// DMD tries a clip from the library before falling back to Success.
	DMD bool `yaml:"dmd,omitempty"`
}

// Concurrent reports whether the command runs behind a racing spinner.
func (p Profile) Concurrent() bool { return p.Timeout > 0 }

var DefaultProfile = Profile{Success: []string{"save"}}

var Profiles = map[string]Profile{
	"commit": {Timeout: 10 * time.Second, Success: []string{"baby", "confetti", "save"}},
	"push":   {Timeout: 15 * time.Second, Success: []string{"rocket", "fireworks", "trophy", "confetti"}, DMD: true},
	"pull":   {Timeout: 12 * time.Second, Success: []string{"download", "rabbit"}, DMD: true},
	"fetch":  {Timeout: 12 * time.Second, Success: []string{"download"}, DMD: true},
	"clone":  {Timeout: 12 * time.Second, Success: []string{"download", "matrix"}, DMD: true},
	"merge":  {Timeout: 10 * time.Second, Success: []string{"merge"}, DMD: true},
	"status": {Timeout: 5 * time.Second, Success: []string{}, DMD: true},
	"diff":   {Timeout: 5 * time.Second, Success: []string{}, DMD: true},
	"log":    {Timeout: 5 * time.Second, Success: []string{}, DMD: true},
}

func defaultCommands() map[string]Profile {
	out := make(map[string]Profile, len(Profiles))
	for name, p := range Profiles {
		p.Success = slices.Clone(p.Success)
		out[name] = p
	}
	return out
}

func GetProfile(command string) (Profile, bool) {
	p, ok := Profiles[command]
	return p, ok
}

// ListProfiles returns the subcommands with a built-in profile, sorted.
func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
