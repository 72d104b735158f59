// Package world holds the in-memory representation of arcs, episodes,
// creatures and enemy silhouettes, and the loader that links them.
package world

// Role classifies how a creature is used within its arc.
type Role string

const (
	RoleMain       Role = "main"
	RoleRecurring  Role = "recurring"
	RoleBackground Role = "background"
)

// Arc is a themed story environment spanning multiple episodes with one
// hidden enemy.
type Arc struct {
	ID          string
	Theme       string
	Environment string
	Tone        string

	// PoolMin and PoolMax bound the arc's target creature pool size.
	PoolMin int
	PoolMax int

	// Episodes in arc order. The last one is the terminal episode.
	Episodes []*Episode

	// Creatures is the arc's creature pool. A creature belongs to exactly
	// one arc.
	Creatures []*Creature

	creatureByID map[string]*Creature
	episodeByID  map[int]*Episode
}

// Creature returns the arc's creature with the given id.
func (a *Arc) Creature(id string) (*Creature, bool) {
	c, ok := a.creatureByID[id]
	return c, ok
}

// Episode returns the arc's episode with the given id.
func (a *Arc) Episode(id int) (*Episode, bool) {
	e, ok := a.episodeByID[id]
	return e, ok
}

// TerminalEpisode returns the last episode in arc order, or nil for an arc
// with no episodes.
func (a *Arc) TerminalEpisode() *Episode {
	if len(a.Episodes) == 0 {
		return nil
	}
	return a.Episodes[len(a.Episodes)-1]
}

// DistinctCreatureCount returns the number of distinct creatures in the
// arc's pool plus any referenced by its episodes.
func (a *Arc) DistinctCreatureCount() int {
	seen := make(map[string]bool, len(a.Creatures))
	for _, c := range a.Creatures {
		seen[c.ID] = true
	}
	for _, e := range a.Episodes {
		for _, c := range e.MainCreatures {
			seen[c.ID] = true
		}
	}
	return len(seen)
}

// Episode is a narrative unit within an arc.
type Episode struct {
	ID      int
	Ordinal int // 1-based position within the arc
	Arc     *Arc

	// MainCreatures must hold exactly 3 creatures for a valid episode.
	// The validator enforces this; the loader links whatever is declared.
	MainCreatures []*Creature
}

// Creature is a named inhabitant of exactly one arc.
type Creature struct {
	ID          string
	Name        string
	Description string
	Role        Role
	Arc         *Arc
}

// SilhouetteHint is one hint fragment tied to the episode it appears in.
type SilhouetteHint struct {
	EpisodeID int
	Text      string
}

// EnemySilhouette is the arc's hidden antagonist, revealed gradually via
// per-episode hints. Identity may be empty until the terminal episode.
type EnemySilhouette struct {
	Arc      *Arc
	Identity string
	Hints    []SilhouetteHint
}

// HintFor returns the hint text for the given episode, if any.
func (s *EnemySilhouette) HintFor(episodeID int) (string, bool) {
	for _, h := range s.Hints {
		if h.EpisodeID == episodeID {
			return h.Text, true
		}
	}
	return "", false
}

// Appearance records one episode a creature appeared in.
type Appearance struct {
	EpisodeID int
	Count     int
}

// TrackerEntry is the continuity record for one creature.
type TrackerEntry struct {
	Creature    *Creature
	Arc         *Arc
	Appearances []Appearance
}

// TotalAppearances returns the cumulative appearance count.
func (t *TrackerEntry) TotalAppearances() int {
	total := 0
	for _, a := range t.Appearances {
		total += a.Count
	}
	return total
}

// WorldData is the fully-linked, read-only world. It is immutable after
// Load and safe for concurrent reads.
type WorldData struct {
	Arcs        []*Arc
	Silhouettes []*EnemySilhouette
	Tracker     []*TrackerEntry

	arcByID          map[string]*Arc
	silhouettesByArc map[string][]*EnemySilhouette
	trackerByKey     map[string]*TrackerEntry
}

// Arc returns the arc with the given id.
func (w *WorldData) Arc(id string) (*Arc, bool) {
	a, ok := w.arcByID[id]
	return a, ok
}

// SilhouettesFor returns all silhouette records declared for the arc.
// A valid world has exactly one per arc; the validator enforces that.
func (w *WorldData) SilhouettesFor(arcID string) []*EnemySilhouette {
	return w.silhouettesByArc[arcID]
}

// TrackerFor returns the tracker entry for a creature within an arc.
func (w *WorldData) TrackerFor(arcID, creatureID string) (*TrackerEntry, bool) {
	t, ok := w.trackerByKey[trackerKey(arcID, creatureID)]
	return t, ok
}

func trackerKey(arcID, creatureID string) string {
	return arcID + "/" + creatureID
}
