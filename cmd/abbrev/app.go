package main

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/abbrev/internal/config"
	"github.com/vango-dev/abbrev/internal/errors"
	"github.com/vango-dev/abbrev/internal/source"
	"github.com/vango-dev/abbrev/pkg/resolve"
	"github.com/vango-dev/abbrev/pkg/treeyaml"
)

// app holds the state shared by all commands.
type app struct {
	configPath string
	sources    []string
	noBuiltins bool
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// setup loads and validates configuration and builds the logger. A
// missing abbrev.json is only an error when --config names it.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.LoadFromWorkingDir()
		if ae := errors.As(err); ae != nil && ae.Code == "E121" {
			a.cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger = a.cfg.Logger(cmd.ErrOrStderr())
	if path := a.cfg.Path(); path != "" {
		a.logger.Debug("config loaded", "path", path)
	}
	return nil
}

// snippetSet loads the configured sources followed by those given on the
// command line, so flags override the config file.
func (a *app) snippetSet(ctx context.Context) (*source.Set, error) {
	uris := append(a.cfg.SnippetSources(), a.sources...)

	client := source.NewS3Client(source.S3Config{
		Region:       a.cfg.S3.Region,
		Endpoint:     a.cfg.S3.Endpoint,
		UsePathStyle: a.cfg.S3.UsePathStyle,
	})
	loader := source.NewLoader(
		source.WithS3(client),
		source.WithLogger(a.logger),
	)
	return source.LoadRegistry(ctx, loader, uris, a.cfg.Builtins && !a.noBuiltins)
}

func (a *app) resolver(set *source.Set, opts ...resolve.Option) *resolve.Resolver {
	opts = append([]resolve.Option{resolve.WithLogger(a.logger)}, opts...)
	return resolve.New(set.Registry(), treeyaml.Parse, opts...)
}

// resolveFailure wraps a resolver error in its error code.
func resolveFailure(err error) *errors.AbbrevError {
	var tplErr *resolve.TemplateError
	if stderrors.As(err, &tplErr) {
		return errors.New("E201").
			WithDetail("Snippet " + tplErr.Name + " has a template that does not parse").
			Wrap(err)
	}
	return errors.New("E202").Wrap(err)
}
