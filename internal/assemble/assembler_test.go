package assemble

import (
	"errors"
	"testing"

	"github.com/fireverse/worldengine/internal/world"
)

// iceArc builds the minimal scenario world: one arc, one episode with 3
// mains, one silhouette hinting at episode 1.
func iceArc(t *testing.T) *world.WorldData {
	t.Helper()
	return linkWorld(t,
		[]world.ArcYAML{{
			ID:          "ice_arc",
			Theme:       "ice",
			Environment: "frozen ravine",
			Tone:        "quiet",
			Creatures: []world.CreatureYAML{
				{ID: "c1", Name: "Frost Hare", Description: "a white runner", Role: "main"},
				{ID: "c2", Name: "Sleet Owl", Description: "a silent glider", Role: "recurring"},
				{ID: "c3", Name: "Rime Elk", Description: "a tall wanderer", Role: "background"},
			},
			Episodes: []world.EpisodeYAML{
				{ID: 1, Creatures: []string{"c1", "c2", "c3"}},
			},
		}},
		[]world.TrackerEntryYAML{
			{Creature: "c1", Arc: "ice_arc"},
			{Creature: "c2", Arc: "ice_arc"},
			{Creature: "c3", Arc: "ice_arc"},
		},
		[]world.SilhouetteYAML{
			{Arc: "ice_arc", Hints: []world.HintYAML{{Episode: 1, Text: "frost claw mark"}}},
		},
	)
}

func linkWorld(t *testing.T, arcs []world.ArcYAML, tracker []world.TrackerEntryYAML, silhouettes []world.SilhouetteYAML) *world.WorldData {
	t.Helper()
	w, err := world.Link(
		&world.ArcsFile{Arcs: arcs},
		&world.TrackerFile{Creatures: tracker},
		&world.SilhouettesFile{Silhouettes: silhouettes},
	)
	if err != nil {
		t.Fatalf("Link returned error: %v", err)
	}
	return w
}

func assertAssemblyError(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s assembly error, got nil", kind)
	}
	var asmErr *Error
	if !errors.As(err, &asmErr) {
		t.Fatalf("Expected *assemble.Error, got %T: %v", err, err)
	}
	if asmErr.Kind != kind {
		t.Fatalf("Expected kind %s, got %s", kind, asmErr.Kind)
	}
	return asmErr
}

func mustField(t *testing.T, record *EpisodeRecord, name string) string {
	t.Helper()
	v, ok := record.Field(name)
	if !ok {
		t.Fatalf("Record should have field %q", name)
	}
	return v
}

func TestAssemble_IceArcScenario(t *testing.T) {
	w := iceArc(t)

	record, err := Assemble(w, "ice_arc", 1, DefaultOptions())
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}

	if got := mustField(t, record, "hint"); got != "frost claw mark" {
		t.Errorf("Hint should be %q, got %q", "frost claw mark", got)
	}
	if got := mustField(t, record, "theme"); got != "ice" {
		t.Errorf("Theme should be ice, got %q", got)
	}
	for i, want := range []string{"Frost Hare", "Sleet Owl", "Rime Elk"} {
		field := mustField(t, record, "creature_"+string(rune('1'+i))+"_name")
		if field != want {
			t.Errorf("Creature %d name should be %q, got %q", i+1, want, field)
		}
	}
}

func TestAssemble_ArcNotFound(t *testing.T) {
	w := iceArc(t)

	_, err := Assemble(w, "fire_arc", 1, DefaultOptions())
	asmErr := assertAssemblyError(t, err, ArcNotFound)
	if asmErr.ArcID != "fire_arc" {
		t.Errorf("Error should name fire_arc, got %q", asmErr.ArcID)
	}
}

func TestAssemble_EpisodeNotFound(t *testing.T) {
	w := iceArc(t)

	_, err := Assemble(w, "ice_arc", 7, DefaultOptions())
	asmErr := assertAssemblyError(t, err, EpisodeNotFound)
	if asmErr.EpisodeID != 7 {
		t.Errorf("Error should name episode 7, got %d", asmErr.EpisodeID)
	}
}

func TestAssemble_IncompleteEpisode(t *testing.T) {
	w := linkWorld(t,
		[]world.ArcYAML{{
			ID:    "ice_arc",
			Theme: "ice",
			Creatures: []world.CreatureYAML{
				{ID: "c1", Name: "Frost Hare", Role: "main"},
				{ID: "c2", Name: "Sleet Owl", Role: "main"},
			},
			Episodes: []world.EpisodeYAML{
				{ID: 1, Creatures: []string{"c1", "c2"}},
			},
		}},
		nil, nil,
	)

	_, err := Assemble(w, "ice_arc", 1, DefaultOptions())
	assertAssemblyError(t, err, IncompleteEpisode)
}

func TestAssemble_RevealOnlyAtTerminalEpisode(t *testing.T) {
	arcs := []world.ArcYAML{{
		ID:    "ice_arc",
		Theme: "ice",
		Creatures: []world.CreatureYAML{
			{ID: "c1", Name: "Frost Hare", Role: "main"},
			{ID: "c2", Name: "Sleet Owl", Role: "main"},
			{ID: "c3", Name: "Rime Elk", Role: "main"},
		},
		Episodes: []world.EpisodeYAML{
			{ID: 1, Creatures: []string{"c1", "c2", "c3"}},
			{ID: 2, Creatures: []string{"c1", "c2", "c3"}},
		},
	}}
	silhouettes := []world.SilhouetteYAML{
		{Arc: "ice_arc", Identity: "The Pale Stalker", Hints: []world.HintYAML{
			{Episode: 1, Text: "long tracks in the snow"},
			{Episode: 2, Text: "a shape against the moon"},
		}},
	}
	w := linkWorld(t, arcs, nil, silhouettes)

	first, err := Assemble(w, "ice_arc", 1, DefaultOptions())
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if _, ok := first.Field("reveal"); ok {
		t.Error("Identity must stay withheld before the terminal episode")
	}

	terminal, err := Assemble(w, "ice_arc", 2, DefaultOptions())
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if got := mustField(t, terminal, "reveal"); got != "The Pale Stalker" {
		t.Errorf("Terminal episode should reveal the identity, got %q", got)
	}
}

func TestAssemble_NoHintForUnhintedEpisode(t *testing.T) {
	arcs := []world.ArcYAML{{
		ID:    "ice_arc",
		Theme: "ice",
		Creatures: []world.CreatureYAML{
			{ID: "c1", Name: "Frost Hare", Role: "main"},
			{ID: "c2", Name: "Sleet Owl", Role: "main"},
			{ID: "c3", Name: "Rime Elk", Role: "main"},
		},
		Episodes: []world.EpisodeYAML{
			{ID: 1, Creatures: []string{"c1", "c2", "c3"}},
			{ID: 2, Creatures: []string{"c1", "c2", "c3"}},
		},
	}}
	silhouettes := []world.SilhouetteYAML{
		{Arc: "ice_arc", Hints: []world.HintYAML{{Episode: 2, Text: "a shape against the moon"}}},
	}
	w := linkWorld(t, arcs, nil, silhouettes)

	record, err := Assemble(w, "ice_arc", 1, DefaultOptions())
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if _, ok := record.Field("hint"); ok {
		t.Error("Episode 1 has no mapped hint and should get no hint field")
	}
}

func TestAssemble_SceneSlotsFilled(t *testing.T) {
	w := iceArc(t)

	record, err := Assemble(w, "ice_arc", 1, DefaultOptions())
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}

	for i := 1; i <= SceneCount; i++ {
		prefix := "scene_" + string(rune('0'+i))
		if _, ok := record.Field(prefix + "_name"); !ok {
			t.Errorf("Record should have %s_name", prefix)
		}
		if _, ok := record.Field(prefix + "_goal"); !ok {
			t.Errorf("Record should have %s_goal", prefix)
		}
	}
	if got := mustField(t, record, "scene_1_goal"); got != "Establish the frozen ravine atmosphere with a quiet tone." {
		t.Errorf("Unexpected opening goal: %q", got)
	}
}

func TestAssemble_ProgressionFieldsFixedPrecision(t *testing.T) {
	w := iceArc(t)

	record, err := Assemble(w, "ice_arc", 1, DefaultOptions())
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}

	// A single-episode arc sits at finale.
	if got := mustField(t, record, "progression_stage"); got != "finale" {
		t.Errorf("Stage should be finale, got %q", got)
	}
	presence := mustField(t, record, "silhouette_presence")
	if len(presence) != 4 || presence[1] != '.' {
		t.Errorf("Signals should render with two decimals, got %q", presence)
	}
}
