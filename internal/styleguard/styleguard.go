// Package styleguard screens rendered prompt text against a descriptor
// denylist. Prompts hand creature descriptions to downstream image
// generation tools, so anything more vivid than the generic register has
// to be caught before the package leaves the engine.
package styleguard

import "strings"

// Config holds the style guard configuration
type Config struct {
	Enabled           bool     `yaml:"enabled"`
	BannedDescriptors []string `yaml:"banned_descriptors"`
}

// Result contains the outcome of checking prompt text
type Result struct {
	Allowed    bool   // Whether the text is allowed
	Descriptor string // The offending descriptor (if not allowed)
}

// Guard validates prompt text against banned descriptors
type Guard struct {
	enabled     bool
	descriptors []string // Lowercase banned descriptors (partial match)
}

// New creates a new Guard from a Config
func New(cfg *Config) *Guard {
	if cfg == nil {
		return &Guard{enabled: false}
	}

	g := &Guard{
		enabled:     cfg.Enabled,
		descriptors: make([]string, 0, len(cfg.BannedDescriptors)),
	}

	// Store lowercase versions for case-insensitive matching
	for _, d := range cfg.BannedDescriptors {
		if d != "" {
			g.descriptors = append(g.descriptors, strings.ToLower(d))
		}
	}

	return g
}

// Check validates prompt text against the denylist
func (g *Guard) Check(text string) Result {
	// If the guard is disabled, allow all text
	if !g.enabled {
		return Result{Allowed: true}
	}

	textLower := strings.ToLower(text)

	for _, d := range g.descriptors {
		if strings.Contains(textLower, d) {
			return Result{
				Allowed:    false,
				Descriptor: d,
			}
		}
	}

	return Result{Allowed: true}
}

// IsEnabled returns whether the guard is enabled
func (g *Guard) IsEnabled() bool {
	return g.enabled
}
