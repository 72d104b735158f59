package styleguard

import "testing"

func TestNew_NilConfig(t *testing.T) {
	g := New(nil)

	if g.enabled {
		t.Error("Guard should be disabled when config is nil")
	}

	// Should allow any text when disabled
	result := g.Check("a grisly shape")
	if !result.Allowed {
		t.Error("Should allow any text when guard is disabled")
	}
}

func TestNew_DisabledConfig(t *testing.T) {
	cfg := &Config{
		Enabled:           false,
		BannedDescriptors: []string{"grisly"},
	}

	g := New(cfg)

	result := g.Check("a grisly shape")
	if !result.Allowed {
		t.Error("Should allow banned descriptors when guard is disabled")
	}
}

func TestCheck_BannedDescriptors(t *testing.T) {
	cfg := &Config{
		Enabled:           true,
		BannedDescriptors: []string{"grisly", "mangled", "rotting"},
	}

	g := New(cfg)

	tests := []struct {
		text    string
		allowed bool
	}{
		{"a grisly shape in the dark", false},      // Exact word
		{"A Grisly shape", false},                  // Case insensitive
		{"the MANGLED remains", false},             // All caps
		{"something rotting below", false},         // Another descriptor
		{"a creature moves in the dark", true},     // Clean text
		{"describe each creature briefly", true},   // Clean text
		{"a grim silhouette", true},                // Similar but not banned
	}

	for _, tc := range tests {
		result := g.Check(tc.text)
		if result.Allowed != tc.allowed {
			t.Errorf("Check(%q) = %v, want %v", tc.text, result.Allowed, tc.allowed)
		}
		if !tc.allowed && result.Descriptor == "" {
			t.Errorf("Check(%q) should name the offending descriptor", tc.text)
		}
	}
}

func TestCheck_EmptyDeniedEntries(t *testing.T) {
	cfg := &Config{
		Enabled:           true,
		BannedDescriptors: []string{"grisly", "", "mangled"}, // Empty string in list
	}

	g := New(cfg)

	result := g.Check("a grisly shape")
	if result.Allowed {
		t.Error("Should reject banned descriptor")
	}

	result = g.Check("a quiet creature")
	if !result.Allowed {
		t.Error("Should allow clean text")
	}
}

func TestIsEnabled(t *testing.T) {
	if !New(&Config{Enabled: true}).IsEnabled() {
		t.Error("IsEnabled should return true for an enabled guard")
	}
	if New(&Config{Enabled: false}).IsEnabled() {
		t.Error("IsEnabled should return false for a disabled guard")
	}
	if New(nil).IsEnabled() {
		t.Error("IsEnabled should return false for nil config")
	}
}
