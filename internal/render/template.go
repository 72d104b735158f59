// Package render loads placeholder templates and substitutes episode
// record fields into them.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/fireverse/worldengine/internal/logger"
)

// Placeholder delimiters.
const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// segment is one parsed piece of a template: either literal text or a
// placeholder name.
type segment struct {
	literal     string
	placeholder string // non-empty means this segment is a placeholder
}

// Template is a parsed blueprint of literal text and named placeholders.
// Load-time parsing only extracts the placeholder names; whether they
// resolve depends on the record given at render time.
type Template struct {
	Name     string
	raw      string
	segments []segment
}

// Parse parses template text into literal and placeholder segments.
func Parse(name, text string) (*Template, error) {
	t := &Template{Name: name, raw: text}

	rest := text
	for {
		open := strings.Index(rest, openDelim)
		if open < 0 {
			if rest != "" {
				t.segments = append(t.segments, segment{literal: rest})
			}
			break
		}
		if open > 0 {
			t.segments = append(t.segments, segment{literal: rest[:open]})
		}
		rest = rest[open+len(openDelim):]

		end := strings.Index(rest, closeDelim)
		if end < 0 {
			return nil, &Error{Kind: UnclosedPlaceholder, Template: name}
		}
		placeholder := strings.TrimSpace(rest[:end])
		if placeholder == "" {
			return nil, &Error{Kind: UnclosedPlaceholder, Template: name}
		}
		t.segments = append(t.segments, segment{placeholder: placeholder})
		rest = rest[end+len(closeDelim):]
	}

	return t, nil
}

// Placeholders returns the distinct placeholder names in order of first
// appearance.
func (t *Template) Placeholders() []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range t.segments {
		if s.placeholder != "" && !seen[s.placeholder] {
			seen[s.placeholder] = true
			names = append(names, s.placeholder)
		}
	}
	return names
}

// Raw returns the original template text.
func (t *Template) Raw() string {
	return t.raw
}

// Templates holds the blueprints composing an episode package. Finale is
// optional; when present it replaces the episode template for the episode
// that carries the silhouette reveal.
type Templates struct {
	Episode *Template
	Scene   *Template
	Prompt  *Template
	Finale  *Template
}

// LoadTemplates loads and parses the episode, scene and prompt templates,
// plus an optional finale variant (empty path skips it). The prompt
// template must contain the literal word "creature"; more specific
// descriptors are not allowed to reach downstream generation tools.
func LoadTemplates(episodePath, scenePath, promptPath, finalePath string) (*Templates, error) {
	episode, err := loadTemplate("episode", episodePath)
	if err != nil {
		return nil, err
	}
	scene, err := loadTemplate("scene", scenePath)
	if err != nil {
		return nil, err
	}
	prompt, err := loadTemplate("prompt", promptPath)
	if err != nil {
		return nil, err
	}

	var finale *Template
	if finalePath != "" {
		finale, err = loadTemplate("finale", finalePath)
		if err != nil {
			return nil, err
		}
	}

	if !strings.Contains(prompt.raw, "creature") {
		return nil, &Error{Kind: PromptStyleViolation, Template: "prompt"}
	}

	logger.Info("Templates loaded",
		"episode_placeholders", len(episode.Placeholders()),
		"scene_placeholders", len(scene.Placeholders()),
		"prompt_placeholders", len(prompt.Placeholders()),
		"finale_variant", finale != nil)

	return &Templates{Episode: episode, Scene: scene, Prompt: prompt, Finale: finale}, nil
}

func loadTemplate(name, path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s template: %w", name, err)
	}
	return Parse(name, string(data))
}
