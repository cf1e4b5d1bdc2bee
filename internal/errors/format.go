package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// detailWidth is the column at which detail text wraps.
const detailWidth = 72

// palette holds the styles an error is rendered with. Styles made by a
// renderer that does not write to a terminal emit no escape codes.
type palette struct {
	banner  lipgloss.Style
	title   lipgloss.Style
	place   lipgloss.Style
	gutter  lipgloss.Style
	pointer lipgloss.Style
	label   lipgloss.Style
	link    lipgloss.Style
	detail  lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	return palette{
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		title:   r.NewStyle().Bold(true),
		place:   r.NewStyle().Foreground(lipgloss.Color("6")),
		gutter:  r.NewStyle().Foreground(lipgloss.Color("8")),
		pointer: r.NewStyle().Foreground(lipgloss.Color("1")),
		label:   r.NewStyle().Foreground(lipgloss.Color("6")),
		link:    r.NewStyle().Foreground(lipgloss.Color("4")),
		detail:  r.NewStyle().Width(detailWidth),
	}
}

// Format returns the error laid out for a terminal, without colors.
func (e *AbbrevError) Format() string {
	return e.Render(lipgloss.NewRenderer(io.Discard))
}

// Render lays the error out with styles from r: a header, the location
// with its source lines, detail, cause, hint, example and doc link.
func (e *AbbrevError) Render(r *lipgloss.Renderer) string {
	p := newPalette(r)
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(p.banner.Render("ERROR") + " " + p.title.Render(e.Code+": "+e.Message))
	} else {
		b.WriteString(p.banner.Render("ERROR:") + " " + p.title.Render(e.Message))
	}
	b.WriteString("\n\n")

	if e.Location != nil {
		b.WriteString("  " + p.place.Render(e.Location.String()) + "\n\n")
		if len(e.Context) > 0 {
			e.renderSource(&b, p)
			b.WriteString("\n")
		}
	}

	if e.Detail != "" {
		for _, line := range strings.Split(p.detail.Render(e.Detail), "\n") {
			b.WriteString("  " + strings.TrimRight(line, " ") + "\n")
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("  " + p.gutter.Render("Cause: ") + e.Wrapped.Error() + "\n\n")
	}
	if e.Suggestion != "" {
		b.WriteString("  " + p.label.Render("Hint: ") + e.Suggestion + "\n\n")
	}
	if e.Example != "" {
		b.WriteString("  " + p.label.Render("Example:") + "\n")
		for _, line := range strings.Split(e.Example, "\n") {
			b.WriteString("    " + line + "\n")
		}
		b.WriteString("\n")
	}
	if e.DocURL != "" {
		b.WriteString("  " + p.gutter.Render("Learn more: ") + p.link.Render(e.DocURL) + "\n")
	}

	return b.String()
}

// renderSource writes the context lines with a gutter of line numbers,
// marking the error line and column.
func (e *AbbrevError) renderSource(b *strings.Builder, p palette) {
	for i, line := range e.Context {
		n := e.ContextLine + i
		mark := "  "
		if n == e.Location.Line {
			mark = p.pointer.Render("→ ")
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", mark, n, p.gutter.Render(" │ "), line)
		if n == e.Location.Line && e.Location.Column > 0 {
			fmt.Fprintf(b, "        %s%s%s\n",
				p.gutter.Render("│ "),
				strings.Repeat(" ", e.Location.Column-1),
				p.pointer.Render("^"))
		}
	}
}

// jsonError is the wire form of an AbbrevError.
type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Cause      string        `json:"cause,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
	DocURL     string        `json:"docUrl,omitempty"`
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// FormatJSON returns the error as a JSON object.
func (e *AbbrevError) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	if e.Location != nil {
		out.Location = &jsonLocation{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"category":%q,"message":%q}`, e.Category, e.Message)
	}
	return string(data)
}

// PrintError prints err to stderr, in color when stderr is a terminal.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError prints err to w. Colors are used only when w is a terminal.
func FprintError(w io.Writer, err error) {
	r := lipgloss.NewRenderer(w)
	if ae := As(err); ae != nil {
		fmt.Fprint(w, ae.Render(r))
		return
	}
	p := newPalette(r)
	fmt.Fprintf(w, "\n%s %s\n\n", p.banner.Render("ERROR:"), err.Error())
}
