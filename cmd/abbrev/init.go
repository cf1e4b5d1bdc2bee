package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/abbrev/internal/config"
	"github.com/vango-dev/abbrev/internal/errors"
)

func initCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default abbrev.json",
		Long: `Write abbrev.json with default settings into dir, or the working
directory when dir is omitted. Snippet sources given with --snippets and
--no-builtins are recorded in the new file.

Examples:
  abbrev init
  abbrev init --snippets snippets/html.yaml --snippets s3://team/web.yaml
  abbrev init site --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, a, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing abbrev.json")

	return cmd
}

func runInit(cmd *cobra.Command, a *app, dir string, force bool) error {
	if config.Exists(dir) && !force {
		return errors.New("E124").
			WithDetail("abbrev.json already exists in " + dir).
			WithSuggestion("Pass --force to replace it")
	}

	cfg := config.New()
	cfg.Snippets = a.sources
	cfg.Builtins = !a.noBuiltins
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.Path())
	return err
}
