package assemble

import "sort"

// SceneCount is the fixed number of 10-second scene blocks per episode.
const SceneCount = 6

// EpisodeRecord is the flat field mapping produced by assembly and consumed
// by the renderer. Field names double as template placeholder names.
type EpisodeRecord struct {
	ArcID     string
	EpisodeID int

	fields map[string]string
}

// NewEpisodeRecord creates an empty record for the given episode.
func NewEpisodeRecord(arcID string, episodeID int) *EpisodeRecord {
	return &EpisodeRecord{
		ArcID:     arcID,
		EpisodeID: episodeID,
		fields:    make(map[string]string),
	}
}

// Set stores a named field value.
func (r *EpisodeRecord) Set(name, value string) {
	r.fields[name] = value
}

// Field returns the value of a named field.
func (r *EpisodeRecord) Field(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// FieldNames returns all field names in sorted order.
func (r *EpisodeRecord) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
