package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/abbrev/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "abbrev",
		Short: "Expand snippet references in abbreviation trees",
		Long: `abbrev resolves snippet references in abbreviation trees.

A tree is read as YAML, every node whose name matches a snippet is
expanded in place, and the result is written back as YAML or as a
compact outline. Snippets come from the built-in HTML set and from
snippet files on disk or in S3.

Configuration is read from abbrev.json in the working directory or its
nearest parent, or from the file named by --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "init":
				return nil
			}
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to abbrev.json")
	flags.StringSliceVar(&a.sources, "snippets", nil, "Snippet source, a file path or s3://bucket/key (repeatable)")
	flags.BoolVar(&a.noBuiltins, "no-builtins", false, "Do not load the built-in HTML snippets")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		resolveCmd(a),
		snippetsCmd(a),
		serveCmd(a),
		initCmd(a),
		versionCmd(),
	)

	return rootCmd
}
