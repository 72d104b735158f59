// Package validate enforces world-consistency rules over loaded world data
// before any episode is assembled.
package validate

import (
	"github.com/fireverse/worldengine/internal/config"
	"github.com/fireverse/worldengine/internal/logger"
	"github.com/fireverse/worldengine/internal/world"
)

// Validate runs the consistency checks in a fixed order, stopping at the
// first violation so error reporting stays reproducible. It is a pure
// read-only pass over already-linked data.
//
// Check order:
//  1. every episode has exactly 3 main creatures
//  2. every referenced creature has a tracker entry
//  3. every arc has exactly one silhouette record
//  4. every silhouette hint maps to an episode of the owning arc
//  5. every arc's distinct creature count is within its pool target range
//
// Pool size (check 5) is advisory by default: the arc description only
// targets "about" 15-20 creatures. Under the strict policy it fails
// validation instead.
func Validate(w *world.WorldData, policy config.PoolPolicy) error {
	if err := checkCreatureCounts(w); err != nil {
		return err
	}
	if err := checkTrackerCoverage(w); err != nil {
		return err
	}
	if err := checkSilhouetteUniqueness(w); err != nil {
		return err
	}
	if err := checkSilhouetteEpisodes(w); err != nil {
		return err
	}
	if err := checkPoolSizes(w, policy); err != nil {
		return err
	}
	return nil
}

// checkCreatureCounts verifies every episode declares exactly 3 main
// creatures.
func checkCreatureCounts(w *world.WorldData) error {
	for _, arc := range w.Arcs {
		for _, episode := range arc.Episodes {
			if len(episode.MainCreatures) != 3 {
				return &Error{
					Kind:      WrongCreatureCount,
					ArcID:     arc.ID,
					EpisodeID: episode.ID,
					Count:     len(episode.MainCreatures),
				}
			}
		}
	}
	return nil
}

// checkTrackerCoverage verifies every creature referenced by any episode
// has a continuity tracker entry.
func checkTrackerCoverage(w *world.WorldData) error {
	for _, arc := range w.Arcs {
		for _, episode := range arc.Episodes {
			for _, creature := range episode.MainCreatures {
				if _, ok := w.TrackerFor(arc.ID, creature.ID); !ok {
					return &Error{
						Kind:       UntrackedCreature,
						ArcID:      arc.ID,
						CreatureID: creature.ID,
					}
				}
			}
		}
	}
	return nil
}

// checkSilhouetteUniqueness verifies each arc has exactly one silhouette
// record.
func checkSilhouetteUniqueness(w *world.WorldData) error {
	for _, arc := range w.Arcs {
		silhouettes := w.SilhouettesFor(arc.ID)
		switch {
		case len(silhouettes) == 0:
			return &Error{Kind: MissingSilhouette, ArcID: arc.ID}
		case len(silhouettes) > 1:
			return &Error{Kind: DuplicateSilhouette, ArcID: arc.ID, Count: len(silhouettes)}
		}
	}
	return nil
}

// checkSilhouetteEpisodes verifies every hint references an episode that
// belongs to the silhouette's own arc.
func checkSilhouetteEpisodes(w *world.WorldData) error {
	for _, sil := range w.Silhouettes {
		for _, hint := range sil.Hints {
			if _, ok := sil.Arc.Episode(hint.EpisodeID); !ok {
				return &Error{
					Kind:      SilhouetteEpisodeMismatch,
					ArcID:     sil.Arc.ID,
					EpisodeID: hint.EpisodeID,
				}
			}
		}
	}
	return nil
}

// checkPoolSizes verifies each arc's distinct creature count falls within
// the arc's declared pool range. Advisory policy logs and passes.
func checkPoolSizes(w *world.WorldData, policy config.PoolPolicy) error {
	for _, arc := range w.Arcs {
		count := arc.DistinctCreatureCount()
		if count >= arc.PoolMin && count <= arc.PoolMax {
			continue
		}
		if policy == config.PoolPolicyStrict {
			return &Error{Kind: PoolSizeOutOfRange, ArcID: arc.ID, Count: count}
		}
		logger.Warning("Arc creature pool outside target range",
			"arc", arc.ID,
			"count", count,
			"pool_min", arc.PoolMin,
			"pool_max", arc.PoolMax)
	}
	return nil
}
