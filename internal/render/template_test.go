package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse_ExtractsPlaceholders(t *testing.T) {
	tmpl := mustParse(t, "episode", "Arc: {{theme}}, Hint: {{hint}}, again {{theme}}")

	placeholders := tmpl.Placeholders()
	if len(placeholders) != 2 {
		t.Fatalf("Should extract 2 distinct placeholders, got %d", len(placeholders))
	}
	if placeholders[0] != "theme" || placeholders[1] != "hint" {
		t.Errorf("Placeholders should be in first-appearance order, got %v", placeholders)
	}
}

func TestParse_LiteralOnlyTemplate(t *testing.T) {
	tmpl := mustParse(t, "prompt", "no placeholders at all")
	if len(tmpl.Placeholders()) != 0 {
		t.Errorf("Literal-only template should have no placeholders")
	}
}

func TestParse_TrimsPlaceholderWhitespace(t *testing.T) {
	tmpl := mustParse(t, "episode", "Arc: {{ theme }}")
	placeholders := tmpl.Placeholders()
	if len(placeholders) != 1 || placeholders[0] != "theme" {
		t.Errorf("Placeholder should be trimmed to theme, got %v", placeholders)
	}
}

func TestParse_UnclosedPlaceholder(t *testing.T) {
	_, err := Parse("episode", "Arc: {{theme")
	if err == nil {
		t.Fatal("Parse should fail on an unclosed placeholder")
	}
	var tmplErr *Error
	if !errors.As(err, &tmplErr) || tmplErr.Kind != UnclosedPlaceholder {
		t.Errorf("Expected %s error, got %v", UnclosedPlaceholder, err)
	}
}

func TestParse_EmptyPlaceholder(t *testing.T) {
	_, err := Parse("episode", "Arc: {{}}")
	if err == nil {
		t.Fatal("Parse should reject an empty placeholder")
	}
}

// writeTemplates writes the three template files into a temp dir.
func writeTemplates(t *testing.T, episode, scene, prompt string) (string, string, string) {
	t.Helper()
	dir := t.TempDir()

	episodePath := filepath.Join(dir, "episode.tmpl")
	scenePath := filepath.Join(dir, "scene.tmpl")
	promptPath := filepath.Join(dir, "prompt.tmpl")

	for path, content := range map[string]string{
		episodePath: episode,
		scenePath:   scene,
		promptPath:  prompt,
	} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}
	}
	return episodePath, scenePath, promptPath
}

func TestLoadTemplates_Valid(t *testing.T) {
	episode, scene, prompt := writeTemplates(t,
		"Arc: {{theme}}", "scene {{scene_number}}", "a creature style guide")

	templates, err := LoadTemplates(episode, scene, prompt, "")
	if err != nil {
		t.Fatalf("LoadTemplates returned error: %v", err)
	}
	if templates.Episode == nil || templates.Scene == nil || templates.Prompt == nil {
		t.Fatal("All three templates should load")
	}
	if templates.Finale != nil {
		t.Error("An empty finale path should leave the variant unset")
	}
}

func TestLoadTemplates_FinaleVariant(t *testing.T) {
	episode, scene, prompt := writeTemplates(t,
		"Arc: {{theme}}", "scene {{scene_number}}", "a creature style guide")
	finale := filepath.Join(t.TempDir(), "finale.tmpl")
	if err := os.WriteFile(finale, []byte("Unmasked: {{reveal}}"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	templates, err := LoadTemplates(episode, scene, prompt, finale)
	if err != nil {
		t.Fatalf("LoadTemplates returned error: %v", err)
	}
	if templates.Finale == nil {
		t.Fatal("Finale template should load when a path is given")
	}
	if got := templates.Finale.Placeholders(); len(got) != 1 || got[0] != "reveal" {
		t.Errorf("Finale placeholders = %v, want [reveal]", got)
	}
}

func TestLoadTemplates_MissingFile(t *testing.T) {
	episode, scene, _ := writeTemplates(t, "a", "b", "creature")

	if _, err := LoadTemplates(episode, scene, "/nonexistent/prompt.tmpl", ""); err == nil {
		t.Error("LoadTemplates should fail for a missing file")
	}
}

func TestLoadTemplates_MissingFinaleFile(t *testing.T) {
	episode, scene, prompt := writeTemplates(t, "a", "b", "creature")

	if _, err := LoadTemplates(episode, scene, prompt, "/nonexistent/finale.tmpl"); err == nil {
		t.Error("LoadTemplates should fail for a missing finale file")
	}
}

func TestLoadTemplates_PromptMustSayCreature(t *testing.T) {
	// The prompt style guide must use the generic word, never a more
	// specific descriptor.
	episode, scene, prompt := writeTemplates(t,
		"Arc: {{theme}}", "scene {{scene_number}}", "a monster style guide")

	_, err := LoadTemplates(episode, scene, prompt, "")
	if err == nil {
		t.Fatal("LoadTemplates should reject a prompt without the word creature")
	}
	var tmplErr *Error
	if !errors.As(err, &tmplErr) || tmplErr.Kind != PromptStyleViolation {
		t.Errorf("Expected %s error, got %v", PromptStyleViolation, err)
	}
}

func TestLoadTemplates_PlaceholderValidityDeferredToRender(t *testing.T) {
	// Load only extracts names; an unknown field is not a load error.
	episode, scene, prompt := writeTemplates(t,
		"{{nonexistent_field}}", "scene {{scene_number}}", "creature")

	if _, err := LoadTemplates(episode, scene, prompt, ""); err != nil {
		t.Errorf("Unknown placeholder names should not fail at load time: %v", err)
	}
}
