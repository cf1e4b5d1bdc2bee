package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/abbrev/internal/errors"
	"github.com/vango-dev/abbrev/pkg/treeyaml"
)

const (
	formatYAML    = "yaml"
	formatOutline = "outline"
)

func resolveCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve snippets in a tree document",
		Long: `Resolve reads a YAML tree document, expands every snippet
reference in it and writes the result to standard output.

With no file, or when file is "-", the document is read from
standard input.

Examples:
  abbrev resolve page.yaml
  echo 'name: doc' | abbrev resolve --format=outline
  abbrev resolve --snippets team.yaml --snippets s3://snippets/shared.yaml page.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			return runResolve(cmd, a, name, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "Output format: yaml or outline")

	return cmd
}

func runResolve(cmd *cobra.Command, a *app, name, format string) error {
	if format != formatYAML && format != formatOutline {
		return errors.New("E220").
			WithDetail(fmt.Sprintf("Unknown format %q", format)).
			WithSuggestion("Use --format=yaml or --format=outline")
	}

	input, err := readInput(cmd, name)
	if err != nil {
		return err
	}

	tree, err := treeyaml.Decode(input)
	if err != nil {
		return errors.New("E200").
			WithLocationFromError(name, err).
			WithSource(input).
			Wrap(err)
	}

	set, err := a.snippetSet(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.resolver(set).Resolve(cmd.Context(), tree); err != nil {
		return resolveFailure(err)
	}

	out := cmd.OutOrStdout()
	if format == formatOutline {
		_, err = fmt.Fprintln(out, tree.String())
		return err
	}
	data, err := treeyaml.Marshal(tree)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, errors.New("E240").
			WithDetail("Cannot read " + name).
			Wrap(err)
	}
	return data, nil
}
