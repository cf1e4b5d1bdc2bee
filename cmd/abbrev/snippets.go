package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vango-dev/abbrev/internal/source"
)

func snippetsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "snippets",
		Short: "List resolvable snippet names",
		Long: `List every snippet name that resolve would expand, with the
source it comes from. User snippets shadow built-ins of the same name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.snippetSet(cmd.Context())
			if err != nil {
				return err
			}
			entries := set.Names()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			_, err = fmt.Fprint(out, snippetTable(lipgloss.NewRenderer(out), entries))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")

	return cmd
}

// snippetTable lays entries out in aligned NAME, ORIGIN and KIND columns.
// Colors apply only when the renderer's output is a terminal.
func snippetTable(r *lipgloss.Renderer, entries []source.Entry) string {
	nameWidth, originWidth := len("NAME"), len("ORIGIN")
	for _, e := range entries {
		nameWidth = max(nameWidth, lipgloss.Width(e.Name))
		originWidth = max(originWidth, len(e.Origin))
	}

	header := r.NewStyle().Bold(true)
	name := r.NewStyle().Width(nameWidth + 2)
	origins := map[source.Origin]lipgloss.Style{
		source.OriginUser:    r.NewStyle().Width(originWidth + 2).Foreground(lipgloss.Color("42")),
		source.OriginBuiltin: r.NewStyle().Width(originWidth + 2).Foreground(lipgloss.Color("241")),
	}

	s := header.Render(name.Render("NAME")+r.NewStyle().Width(originWidth+2).Render("ORIGIN")+"KIND") + "\n"
	for _, e := range entries {
		s += name.Render(e.Name) + origins[e.Origin].Render(string(e.Origin)) + e.Kind + "\n"
	}
	return s
}
