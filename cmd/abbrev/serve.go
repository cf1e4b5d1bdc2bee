package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/abbrev/internal/server"
	"github.com/vango-dev/abbrev/pkg/resolve"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve snippet resolution over HTTP",
		Long: `Serve starts an HTTP server exposing POST /resolve, GET /snippets,
GET /healthz and, unless disabled, GET /metrics.

Snippets are loaded once at startup. The server stops gracefully on
SIGINT or SIGTERM.

Examples:
  abbrev serve
  abbrev serve --addr=0.0.0.0:9000 --no-metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Address = addr
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			if noMetrics {
				a.cfg.Server.Metrics = false
			}

			set, err := a.snippetSet(cmd.Context())
			if err != nil {
				return err
			}

			cfg := server.DefaultConfig()
			cfg.Address = a.cfg.Server.Address
			cfg.Snippets = set
			cfg.Logger = a.logger

			var opts []resolve.Option
			if a.cfg.Server.Metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				cfg.Registry = reg
				opts = append(opts, resolve.WithMetrics(resolve.NewMetrics(resolve.WithRegistry(reg))))
			}
			cfg.Resolver = a.resolver(set, opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(cfg).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from abbrev.json)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable Prometheus metrics")

	return cmd
}
