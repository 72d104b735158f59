package assemble

import (
	"sort"

	"github.com/fireverse/worldengine/internal/world"
)

// SelectBackground picks background creatures for an episode from the arc's
// pool, excluding the episode's main creatures. Creatures that featured as
// mains within the trailing recency window sort last, then least total
// appearances first, then id for a deterministic order.
func SelectBackground(w *world.WorldData, episode *world.Episode, recentMainWindow int) []*world.Creature {
	arc := episode.Arc

	mains := make(map[string]bool, len(episode.MainCreatures))
	for _, c := range episode.MainCreatures {
		mains[c.ID] = true
	}

	recentlyMain := recentMainCreatures(arc, episode.Ordinal, recentMainWindow)

	var background []*world.Creature
	for _, c := range arc.Creatures {
		if !mains[c.ID] {
			background = append(background, c)
		}
	}

	sort.SliceStable(background, func(i, j int) bool {
		a, b := background[i], background[j]
		if recentlyMain[a.ID] != recentlyMain[b.ID] {
			return !recentlyMain[a.ID]
		}
		ai, bi := totalAppearances(w, arc.ID, a.ID), totalAppearances(w, arc.ID, b.ID)
		if ai != bi {
			return ai < bi
		}
		return a.ID < b.ID
	})

	return background
}

// recentMainCreatures returns the ids of creatures featured as mains in the
// window of episodes immediately before the given ordinal.
func recentMainCreatures(arc *world.Arc, ordinal, window int) map[string]bool {
	recent := make(map[string]bool)
	if window <= 0 {
		return recent
	}
	for _, e := range arc.Episodes {
		if e.Ordinal >= ordinal || e.Ordinal < ordinal-window {
			continue
		}
		for _, c := range e.MainCreatures {
			recent[c.ID] = true
		}
	}
	return recent
}

func totalAppearances(w *world.WorldData, arcID, creatureID string) int {
	entry, ok := w.TrackerFor(arcID, creatureID)
	if !ok {
		return 0
	}
	return entry.TotalAppearances()
}
