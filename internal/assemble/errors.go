package assemble

import "fmt"

// ErrorKind identifies the class of assembly failure.
type ErrorKind string

const (
	ArcNotFound       ErrorKind = "arc_not_found"
	EpisodeNotFound   ErrorKind = "episode_not_found"
	IncompleteEpisode ErrorKind = "incomplete_episode"
)

// Error reports a failure to assemble an episode record.
type Error struct {
	Kind      ErrorKind
	ArcID     string
	EpisodeID int
}

func (e *Error) Error() string {
	switch e.Kind {
	case ArcNotFound:
		return fmt.Sprintf("assembly error (%s): no arc %q", e.Kind, e.ArcID)
	case EpisodeNotFound:
		return fmt.Sprintf("assembly error (%s): no episode %d in arc %q", e.Kind, e.EpisodeID, e.ArcID)
	case IncompleteEpisode:
		return fmt.Sprintf("assembly error (%s): episode %d of arc %q resolved fewer than 3 main creatures",
			e.Kind, e.EpisodeID, e.ArcID)
	default:
		return fmt.Sprintf("assembly error (%s)", e.Kind)
	}
}
