package resolve

import (
	"errors"
	"fmt"
)

// ErrDetached is returned when a template snippet would be spliced at a
// node that has no parent.
var ErrDetached = errors.New("resolve: node has no parent to splice into")

// TemplateError reports a snippet template that failed to parse.
type TemplateError struct {
	// Name is the node name the snippet was looked up by.
	Name string

	// Template is the snippet's source text.
	Template string

	// Err is the parser's error.
	Err error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	return fmt.Sprintf("resolve: snippet %q: cannot parse template %q: %v", e.Name, e.Template, e.Err)
}

// Unwrap returns the parser's error.
func (e *TemplateError) Unwrap() error {
	return e.Err
}
