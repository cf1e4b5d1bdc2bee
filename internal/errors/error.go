package errors

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategorySource  Category = "source"
	CategoryResolve Category = "resolve"
	CategoryServer  Category = "server"
	CategoryCLI     Category = "cli"
)

// Location represents a position in a snippets file or input document.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// AbbrevError is a structured error with a code, location and hints.
type AbbrevError struct {
	// Code is a unique error identifier (e.g., "E140").
	Code string

	// Category is the error type (config, source, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position where the error occurred.
	Location *Location

	// Context contains source lines around Location.
	Context []string

	// ContextLine is the line number of Context[0].
	ContextLine int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct form.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface. The wrapped cause, if any, is
// appended after the message.
func (e *AbbrevError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AbbrevError) Unwrap() error {
	return e.Wrapped
}

// contextRadius is the number of lines shown on each side of the error line.
const contextRadius = 2

// WithLocation adds a position to the error. file is only a label; use
// WithSource to attach the lines around it.
func (e *AbbrevError) WithLocation(file string, line, column int) *AbbrevError {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithSource fills Context with the lines of src around the error line.
// It does nothing when the error has no location.
func (e *AbbrevError) WithSource(src []byte) *AbbrevError {
	if e.Location == nil || e.Location.Line < 1 {
		return e
	}
	first := max(e.Location.Line-contextRadius, 1)
	last := e.Location.Line + contextRadius

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(src))
	for n := 1; scanner.Scan() && n <= last; n++ {
		if n >= first {
			lines = append(lines, scanner.Text())
		}
	}
	if len(lines) == 0 {
		return e
	}
	e.Context = lines
	e.ContextLine = first
	return e
}

// yamlLine matches the position yaml.v3 puts in its messages.
var yamlLine = regexp.MustCompile(`\bline (\d+)(?:, column (\d+))?`)

// WithLocationFromError locates the error in file using the line number
// reported by a YAML decoder error ("yaml: line 3: ..."). The error is
// left unchanged if err carries no position.
func (e *AbbrevError) WithLocationFromError(file string, err error) *AbbrevError {
	if err == nil {
		return e
	}
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return e
	}
	line, _ := strconv.Atoi(m[1])
	col, _ := strconv.Atoi(m[2])
	if line > 0 {
		e.WithLocation(file, line, col)
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *AbbrevError) WithSuggestion(s string) *AbbrevError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *AbbrevError) WithExample(ex string) *AbbrevError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *AbbrevError) WithDetail(d string) *AbbrevError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *AbbrevError) Wrap(err error) *AbbrevError {
	e.Wrapped = err
	return e
}

// New creates an AbbrevError from a registered error code.
func New(code string) *AbbrevError {
	template, ok := registry[code]
	if !ok {
		return &AbbrevError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &AbbrevError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// As returns the first AbbrevError in err's chain, or nil.
func As(err error) *AbbrevError {
	var ae *AbbrevError
	if stderrors.As(err, &ae) {
		return ae
	}
	return nil
}
