package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fireverse/worldengine/internal/assemble"
)

// RenderedOutput is the final episode package text. Producing it has no
// side effects; writing it anywhere is the caller's job.
type RenderedOutput struct {
	Episode string
	Scenes  [assemble.SceneCount]string
	Prompt  string
}

// Package joins the rendered parts into one episode package.
func (o *RenderedOutput) Package() string {
	var sb strings.Builder
	sb.WriteString(o.Episode)
	for _, scene := range o.Scenes {
		sb.WriteString("\n")
		sb.WriteString(scene)
	}
	sb.WriteString("\n")
	sb.WriteString(o.Prompt)
	return sb.String()
}

// Render substitutes record fields into all three templates. The scene
// template is applied exactly once per scene block, resolving per-scene
// fields first and falling back to shared episode fields. An unknown
// placeholder is a hard error, never literal passthrough.
func Render(templates *Templates, record *assemble.EpisodeRecord) (*RenderedOutput, error) {
	out := &RenderedOutput{}

	// The reveal field exists only on the episode that unmasks the
	// silhouette; that episode takes the finale variant when one is
	// loaded, so {{reveal}} never dangles in the shared template.
	episodeTemplate := templates.Episode
	if templates.Finale != nil {
		if _, ok := record.Field("reveal"); ok {
			episodeTemplate = templates.Finale
		}
	}

	episode, err := renderTemplate(episodeTemplate, func(name string) (string, bool) {
		return record.Field(name)
	})
	if err != nil {
		return nil, err
	}
	out.Episode = episode

	for i := 1; i <= assemble.SceneCount; i++ {
		scene, err := renderTemplate(templates.Scene, sceneResolver(record, i))
		if err != nil {
			return nil, err
		}
		out.Scenes[i-1] = scene
	}

	prompt, err := renderTemplate(templates.Prompt, func(name string) (string, bool) {
		return record.Field(name)
	})
	if err != nil {
		return nil, err
	}
	out.Prompt = prompt

	return out, nil
}

// sceneResolver resolves placeholders for one scene block. scene_number is
// synthesized; any other placeholder tries the per-scene field before the
// shared episode field.
func sceneResolver(record *assemble.EpisodeRecord, sceneNumber int) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if name == "scene_number" {
			return strconv.Itoa(sceneNumber), true
		}
		perScene := fmt.Sprintf("scene_%d_%s", sceneNumber, strings.TrimPrefix(name, "scene_"))
		if v, ok := record.Field(perScene); ok {
			return v, true
		}
		return record.Field(name)
	}
}

// renderTemplate substitutes every placeholder using the resolver.
func renderTemplate(t *Template, resolve func(string) (string, bool)) (string, error) {
	var sb strings.Builder
	for _, s := range t.segments {
		if s.placeholder == "" {
			sb.WriteString(s.literal)
			continue
		}
		value, ok := resolve(s.placeholder)
		if !ok {
			return "", &Error{Kind: UnresolvedPlaceholder, Template: t.Name, Placeholder: s.placeholder}
		}
		sb.WriteString(value)
	}
	return sb.String(), nil
}

// ExtractFields re-extracts placeholder values from text rendered with the
// given template. Literal segments anchor the scan; the value of a
// placeholder runs up to the next literal segment.
func ExtractFields(t *Template, rendered string) (map[string]string, error) {
	fields := make(map[string]string)
	rest := rendered

	for i := 0; i < len(t.segments); i++ {
		s := t.segments[i]
		if s.placeholder == "" {
			if !strings.HasPrefix(rest, s.literal) {
				return nil, fmt.Errorf("rendered text does not match template %q at %q", t.Name, s.literal)
			}
			rest = rest[len(s.literal):]
			continue
		}

		// Value runs until the next literal, or to the end of text.
		if i+1 < len(t.segments) && t.segments[i+1].placeholder == "" {
			next := t.segments[i+1].literal
			idx := strings.Index(rest, next)
			if idx < 0 {
				return nil, fmt.Errorf("rendered text does not match template %q after placeholder %q", t.Name, s.placeholder)
			}
			fields[s.placeholder] = rest[:idx]
			rest = rest[idx:]
		} else {
			fields[s.placeholder] = rest
			rest = ""
		}
	}

	return fields, nil
}
