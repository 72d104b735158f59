package render

import "fmt"

// ErrorKind identifies the class of template failure.
type ErrorKind string

const (
	// UnresolvedPlaceholder means a template referenced a field absent
	// from the episode record. Raised at render time only.
	UnresolvedPlaceholder ErrorKind = "unresolved_placeholder"

	// UnclosedPlaceholder means a template opened a placeholder without
	// closing it. Raised at load time.
	UnclosedPlaceholder ErrorKind = "unclosed_placeholder"

	// PromptStyleViolation means the prompt template is missing the
	// required literal word "creature". Raised at load time.
	PromptStyleViolation ErrorKind = "prompt_style_violation"
)

// Error reports a template load or render failure.
type Error struct {
	Kind        ErrorKind
	Template    string // which template
	Placeholder string // offending placeholder, if applicable
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnresolvedPlaceholder:
		return fmt.Sprintf("render error (%s): template %q references unknown field %q",
			e.Kind, e.Template, e.Placeholder)
	case UnclosedPlaceholder:
		return fmt.Sprintf("template error (%s): template %q has an unclosed placeholder", e.Kind, e.Template)
	case PromptStyleViolation:
		return fmt.Sprintf("template error (%s): prompt template must contain the literal word %q",
			e.Kind, "creature")
	default:
		return fmt.Sprintf("template error (%s): template %q", e.Kind, e.Template)
	}
}
