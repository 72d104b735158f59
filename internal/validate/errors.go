package validate

import "fmt"

// ErrorKind identifies which consistency rule failed.
type ErrorKind string

const (
	WrongCreatureCount        ErrorKind = "wrong_creature_count"
	UntrackedCreature         ErrorKind = "untracked_creature"
	MissingSilhouette         ErrorKind = "missing_silhouette"
	DuplicateSilhouette       ErrorKind = "duplicate_silhouette"
	SilhouetteEpisodeMismatch ErrorKind = "silhouette_episode_mismatch"
	PoolSizeOutOfRange        ErrorKind = "pool_size_out_of_range"
)

// Error reports the first world-consistency rule violated. Context fields
// are filled as applicable to the kind.
type Error struct {
	Kind       ErrorKind
	ArcID      string
	EpisodeID  int
	CreatureID string
	Count      int
}

func (e *Error) Error() string {
	switch e.Kind {
	case WrongCreatureCount:
		return fmt.Sprintf("validation error (%s): episode %d of arc %q has %d main creatures, want 3",
			e.Kind, e.EpisodeID, e.ArcID, e.Count)
	case UntrackedCreature:
		return fmt.Sprintf("validation error (%s): creature %q of arc %q has no tracker entry",
			e.Kind, e.CreatureID, e.ArcID)
	case MissingSilhouette:
		return fmt.Sprintf("validation error (%s): arc %q has no silhouette record", e.Kind, e.ArcID)
	case DuplicateSilhouette:
		return fmt.Sprintf("validation error (%s): arc %q has %d silhouette records, want 1",
			e.Kind, e.ArcID, e.Count)
	case SilhouetteEpisodeMismatch:
		return fmt.Sprintf("validation error (%s): silhouette hint for arc %q references episode %d outside the arc",
			e.Kind, e.ArcID, e.EpisodeID)
	case PoolSizeOutOfRange:
		return fmt.Sprintf("validation error (%s): arc %q has %d distinct creatures, outside target pool range",
			e.Kind, e.ArcID, e.Count)
	default:
		return fmt.Sprintf("validation error (%s)", e.Kind)
	}
}
