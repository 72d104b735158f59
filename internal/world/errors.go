package world

import "fmt"

// LoadErrorKind identifies the class of load failure.
type LoadErrorKind string

const (
	// MalformedInput means a source was not well-formed.
	MalformedInput LoadErrorKind = "malformed_input"

	// DanglingReference means a reference named an id absent from its
	// target collection.
	DanglingReference LoadErrorKind = "dangling_reference"
)

// LoadError reports a failure to load world data. No partial world is ever
// returned alongside a LoadError.
type LoadError struct {
	Kind   LoadErrorKind
	Source string // which source or collection failed
	Ref    string // offending id for dangling references
	Err    error  // underlying parse error, if any
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case DanglingReference:
		return fmt.Sprintf("load error (%s): %s references unknown id %q", e.Kind, e.Source, e.Ref)
	default:
		if e.Err != nil {
			return fmt.Sprintf("load error (%s): %s: %v", e.Kind, e.Source, e.Err)
		}
		return fmt.Sprintf("load error (%s): %s", e.Kind, e.Source)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
