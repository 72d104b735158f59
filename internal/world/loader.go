package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fireverse/worldengine/internal/logger"
)

// CreatureYAML is the raw creature record for YAML parsing.
type CreatureYAML struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Role        string `yaml:"role"` // main, recurring, background
}

// EpisodeYAML is the raw episode record for YAML parsing.
type EpisodeYAML struct {
	ID        int      `yaml:"id"`
	Creatures []string `yaml:"creatures"`
}

// ArcYAML is the raw arc record for YAML parsing.
type ArcYAML struct {
	ID          string         `yaml:"id"`
	Theme       string         `yaml:"theme"`
	Environment string         `yaml:"environment"`
	Tone        string         `yaml:"tone"`
	PoolMin     int            `yaml:"pool_min"`
	PoolMax     int            `yaml:"pool_max"`
	Creatures   []CreatureYAML `yaml:"creatures"`
	Episodes    []EpisodeYAML  `yaml:"episodes"`
}

// ArcsFile represents the arcs.yaml structure.
type ArcsFile struct {
	Arcs []ArcYAML `yaml:"arcs"`
}

// AppearanceYAML is one (episode, count) pair for YAML parsing.
type AppearanceYAML struct {
	Episode int `yaml:"episode"`
	Count   int `yaml:"count"`
}

// TrackerEntryYAML is the raw tracker record for YAML parsing.
type TrackerEntryYAML struct {
	Creature    string           `yaml:"creature"`
	Arc         string           `yaml:"arc"`
	Appearances []AppearanceYAML `yaml:"appearances"`
}

// TrackerFile represents the creature_tracker.yaml structure.
type TrackerFile struct {
	Creatures []TrackerEntryYAML `yaml:"creatures"`
}

// HintYAML is one (episode, hint text) pair for YAML parsing.
type HintYAML struct {
	Episode int    `yaml:"episode"`
	Text    string `yaml:"text"`
}

// SilhouetteYAML is the raw silhouette record for YAML parsing.
type SilhouetteYAML struct {
	Arc      string     `yaml:"arc"`
	Identity string     `yaml:"identity"` // empty until the terminal reveal
	Hints    []HintYAML `yaml:"hints"`
}

// SilhouettesFile represents the enemy_silhouettes.yaml structure.
type SilhouettesFile struct {
	Silhouettes []SilhouetteYAML `yaml:"silhouettes"`
}

// Defaults for the arc creature pool target when a source omits them.
const (
	DefaultPoolMin = 15
	DefaultPoolMax = 20
)

// Load parses the three world data sources and resolves every
// cross-reference into direct links. Either a fully-linked WorldData is
// returned or a *LoadError; there are no partial loads.
func Load(arcsPath, trackerPath, silhouettesPath string) (*WorldData, error) {
	arcsFile, err := readYAML[ArcsFile](arcsPath)
	if err != nil {
		return nil, err
	}
	trackerFile, err := readYAML[TrackerFile](trackerPath)
	if err != nil {
		return nil, err
	}
	silhouettesFile, err := readYAML[SilhouettesFile](silhouettesPath)
	if err != nil {
		return nil, err
	}

	return Link(arcsFile, trackerFile, silhouettesFile)
}

// readYAML reads and parses one source file, classifying any failure as
// malformed input.
func readYAML[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Kind: MalformedInput, Source: path, Err: err}
	}

	var out T
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, &LoadError{Kind: MalformedInput, Source: path, Err: err}
	}
	return &out, nil
}

// Link resolves parsed source records into a fully-linked WorldData.
// Split out from Load so tests and future non-file sources can feed
// already-parsed records.
func Link(arcsFile *ArcsFile, trackerFile *TrackerFile, silhouettesFile *SilhouettesFile) (*WorldData, error) {
	w := &WorldData{
		arcByID:          make(map[string]*Arc),
		silhouettesByArc: make(map[string][]*EnemySilhouette),
		trackerByKey:     make(map[string]*TrackerEntry),
	}

	for _, rawArc := range arcsFile.Arcs {
		arc, err := linkArc(rawArc)
		if err != nil {
			return nil, err
		}
		if _, exists := w.arcByID[arc.ID]; exists {
			return nil, &LoadError{
				Kind:   MalformedInput,
				Source: "arcs",
				Err:    fmt.Errorf("duplicate arc id %q", arc.ID),
			}
		}
		w.Arcs = append(w.Arcs, arc)
		w.arcByID[arc.ID] = arc
	}

	for _, rawEntry := range trackerFile.Creatures {
		entry, err := linkTrackerEntry(w, rawEntry)
		if err != nil {
			return nil, err
		}
		key := trackerKey(entry.Arc.ID, entry.Creature.ID)
		if _, exists := w.trackerByKey[key]; exists {
			return nil, &LoadError{
				Kind:   MalformedInput,
				Source: "tracker",
				Err:    fmt.Errorf("duplicate tracker entry for creature %q in arc %q", entry.Creature.ID, entry.Arc.ID),
			}
		}
		w.Tracker = append(w.Tracker, entry)
		w.trackerByKey[key] = entry
	}

	for _, rawSil := range silhouettesFile.Silhouettes {
		arc, ok := w.arcByID[rawSil.Arc]
		if !ok {
			return nil, &LoadError{Kind: DanglingReference, Source: "silhouette", Ref: rawSil.Arc}
		}
		sil := &EnemySilhouette{
			Arc:      arc,
			Identity: rawSil.Identity,
		}
		for _, h := range rawSil.Hints {
			// Hint-to-episode membership is a validation concern, not a
			// load concern, so hints are kept as declared.
			sil.Hints = append(sil.Hints, SilhouetteHint{EpisodeID: h.Episode, Text: h.Text})
		}
		w.Silhouettes = append(w.Silhouettes, sil)
		w.silhouettesByArc[arc.ID] = append(w.silhouettesByArc[arc.ID], sil)
	}

	logger.Info("World data loaded",
		"arcs", len(w.Arcs),
		"tracker_entries", len(w.Tracker),
		"silhouettes", len(w.Silhouettes))

	return w, nil
}

// linkArc converts a raw arc record into a linked Arc.
func linkArc(raw ArcYAML) (*Arc, error) {
	if raw.ID == "" {
		return nil, &LoadError{
			Kind:   MalformedInput,
			Source: "arcs",
			Err:    fmt.Errorf("arc with empty id"),
		}
	}

	arc := &Arc{
		ID:           raw.ID,
		Theme:        raw.Theme,
		Environment:  raw.Environment,
		Tone:         raw.Tone,
		PoolMin:      raw.PoolMin,
		PoolMax:      raw.PoolMax,
		creatureByID: make(map[string]*Creature),
		episodeByID:  make(map[int]*Episode),
	}
	if arc.PoolMin == 0 {
		arc.PoolMin = DefaultPoolMin
	}
	if arc.PoolMax == 0 {
		arc.PoolMax = DefaultPoolMax
	}

	for _, rawCreature := range raw.Creatures {
		role, err := parseRole(rawCreature.Role)
		if err != nil {
			return nil, &LoadError{
				Kind:   MalformedInput,
				Source: "arcs",
				Err:    fmt.Errorf("creature %q: %w", rawCreature.ID, err),
			}
		}
		if _, exists := arc.creatureByID[rawCreature.ID]; exists {
			return nil, &LoadError{
				Kind:   MalformedInput,
				Source: "arcs",
				Err:    fmt.Errorf("duplicate creature id %q in arc %q", rawCreature.ID, arc.ID),
			}
		}
		creature := &Creature{
			ID:          rawCreature.ID,
			Name:        rawCreature.Name,
			Description: rawCreature.Description,
			Role:        role,
			Arc:         arc,
		}
		arc.Creatures = append(arc.Creatures, creature)
		arc.creatureByID[creature.ID] = creature
	}

	for i, rawEpisode := range raw.Episodes {
		if _, exists := arc.episodeByID[rawEpisode.ID]; exists {
			return nil, &LoadError{
				Kind:   MalformedInput,
				Source: "arcs",
				Err:    fmt.Errorf("duplicate episode id %d in arc %q", rawEpisode.ID, arc.ID),
			}
		}
		episode := &Episode{
			ID:      rawEpisode.ID,
			Ordinal: i + 1,
			Arc:     arc,
		}
		for _, creatureID := range rawEpisode.Creatures {
			creature, ok := arc.creatureByID[creatureID]
			if !ok {
				return nil, &LoadError{Kind: DanglingReference, Source: "episode", Ref: creatureID}
			}
			episode.MainCreatures = append(episode.MainCreatures, creature)
		}
		arc.Episodes = append(arc.Episodes, episode)
		arc.episodeByID[episode.ID] = episode
	}

	return arc, nil
}

// linkTrackerEntry converts a raw tracker record into a linked TrackerEntry.
func linkTrackerEntry(w *WorldData, raw TrackerEntryYAML) (*TrackerEntry, error) {
	arc, ok := w.arcByID[raw.Arc]
	if !ok {
		return nil, &LoadError{Kind: DanglingReference, Source: "tracker", Ref: raw.Arc}
	}
	creature, ok := arc.Creature(raw.Creature)
	if !ok {
		return nil, &LoadError{Kind: DanglingReference, Source: "tracker", Ref: raw.Creature}
	}

	entry := &TrackerEntry{
		Creature: creature,
		Arc:      arc,
	}
	for _, a := range raw.Appearances {
		entry.Appearances = append(entry.Appearances, Appearance{EpisodeID: a.Episode, Count: a.Count})
	}
	return entry, nil
}

// parseRole converts a role tag, rejecting unknown values rather than
// coercing them.
func parseRole(s string) (Role, error) {
	switch s {
	case "main":
		return RoleMain, nil
	case "recurring":
		return RoleRecurring, nil
	case "background":
		return RoleBackground, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
