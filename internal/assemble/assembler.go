// Package assemble turns validated world data into a flat episode record
// ready for template rendering.
package assemble

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fireverse/worldengine/internal/logger"
	"github.com/fireverse/worldengine/internal/progression"
	"github.com/fireverse/worldengine/internal/world"
)

// Options holds assembly tuning knobs.
type Options struct {
	// SilhouetteVisibility is the base silhouette presence before
	// progression growth, in [0, 1].
	SilhouetteVisibility float64

	// RecentMainWindow controls background-creature rotation.
	RecentMainWindow int

	// PriorEscalation carries escalation continuity from earlier runs.
	PriorEscalation float64
}

// DefaultOptions returns assembly options matching the engine defaults.
func DefaultOptions() Options {
	return Options{
		SilhouetteVisibility: 0.2,
		RecentMainWindow:     3,
	}
}

// Assemble resolves one episode of one arc into an EpisodeRecord. The
// silhouette surfaces only the hint mapped to this episode; the final
// identity appears only at the arc's terminal episode.
func Assemble(w *world.WorldData, arcID string, episodeID int, opts Options) (*EpisodeRecord, error) {
	arc, ok := w.Arc(arcID)
	if !ok {
		return nil, &Error{Kind: ArcNotFound, ArcID: arcID}
	}
	episode, ok := arc.Episode(episodeID)
	if !ok {
		return nil, &Error{Kind: EpisodeNotFound, ArcID: arcID, EpisodeID: episodeID}
	}

	// Defensive re-check; validation should have already caught this.
	if len(episode.MainCreatures) < 3 {
		return nil, &Error{Kind: IncompleteEpisode, ArcID: arcID, EpisodeID: episodeID}
	}

	record := NewEpisodeRecord(arcID, episodeID)
	record.Set("arc_id", arc.ID)
	record.Set("theme", arc.Theme)
	record.Set("environment", arc.Environment)
	record.Set("tone", arc.Tone)
	record.Set("episode_id", strconv.Itoa(episode.ID))
	record.Set("episode_number", strconv.Itoa(episode.Ordinal))
	record.Set("total_episodes", strconv.Itoa(len(arc.Episodes)))

	for i, creature := range episode.MainCreatures[:3] {
		prefix := fmt.Sprintf("creature_%d", i+1)
		record.Set(prefix+"_name", creature.Name)
		record.Set(prefix+"_description", creature.Description)
	}

	background := SelectBackground(w, episode, opts.RecentMainWindow)
	names := make([]string, 0, len(background))
	for _, c := range background {
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		record.Set("background_creatures", "None")
	} else {
		record.Set("background_creatures", strings.Join(names, ", "))
	}

	applySilhouette(record, w, arc, episode)
	applyProgression(record, episode, opts)
	applyScenes(record, arc)

	logger.Debug("Episode assembled",
		"arc", arc.ID,
		"episode", episode.ID,
		"fields", len(record.FieldNames()))

	return record, nil
}

// applySilhouette surfaces the per-episode hint, and the reveal identity
// only at the terminal episode.
func applySilhouette(record *EpisodeRecord, w *world.WorldData, arc *world.Arc, episode *world.Episode) {
	silhouettes := w.SilhouettesFor(arc.ID)
	if len(silhouettes) == 0 {
		return
	}
	sil := silhouettes[0]

	if hint, ok := sil.HintFor(episode.ID); ok {
		record.Set("hint", hint)
	}
	if sil.Identity != "" && arc.TerminalEpisode() == episode {
		record.Set("reveal", sil.Identity)
	}
}

// applyProgression injects fixed-precision progression signals so renders
// stay byte-deterministic.
func applyProgression(record *EpisodeRecord, episode *world.Episode, opts Options) {
	p := progression.Compute(episode.Ordinal, len(episode.Arc.Episodes), opts.SilhouetteVisibility, opts.PriorEscalation)

	record.Set("progression_stage", string(p.Stage))
	record.Set("scene_intensity", formatSignal(p.SceneIntensity))
	record.Set("narration_tension", formatSignal(p.NarrationTension))
	record.Set("disturbance_frequency", formatSignal(p.DisturbanceFrequency))
	record.Set("cliffhanger_strength", formatSignal(p.CliffhangerStrength))
	record.Set("silhouette_presence", formatSignal(p.SilhouettePresence))
	record.Set("escalation_level", formatSignal(p.EscalationLevel))
}

func formatSignal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// sceneSlot names one of the fixed scene blocks and how its goal line is
// built from arc metadata.
type sceneSlot struct {
	name string
	goal func(arc *world.Arc) string
}

var sceneSlots = [SceneCount]sceneSlot{
	{"opening", func(a *world.Arc) string {
		return fmt.Sprintf("Establish the %s atmosphere with a %s tone.", a.Environment, a.Tone)
	}},
	{"exploration", func(a *world.Arc) string {
		return fmt.Sprintf("Follow the main creatures deeper into the %s.", a.Environment)
	}},
	{"escalation", func(a *world.Arc) string {
		return "Increase pressure with creature activity and silhouette hints."
	}},
	{"turning_point", func(a *world.Arc) string {
		return "Reveal a strategic clue that changes expectations."
	}},
	{"confrontation", func(a *world.Arc) string {
		return "Push the disturbance to its peak without showing the enemy."
	}},
	{"cooldown", func(a *world.Arc) string {
		return "End with unresolved tension to carry arc momentum forward."
	}},
}

// applyScenes fills the 6 per-scene slots consumed by the scene template.
func applyScenes(record *EpisodeRecord, arc *world.Arc) {
	for i, slot := range sceneSlots {
		prefix := fmt.Sprintf("scene_%d", i+1)
		record.Set(prefix+"_name", slot.name)
		record.Set(prefix+"_goal", slot.goal(arc))
	}
}
