package server

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/abbrev/pkg/resolve"
	"github.com/vango-dev/abbrev/internal/source"
)

// DefaultMaxBodyBytes caps the size of a /resolve request body.
const DefaultMaxBodyBytes = 1 << 20

// Config configures the HTTP server.
type Config struct {
	// Address is the host:port to listen on.
	Address string

	// Resolver expands request trees. Required.
	Resolver *resolve.Resolver

	// Snippets lists the names served by GET /snippets. Required.
	Snippets *source.Set

	// Logger receives request and lifecycle logs.
	// Default: slog.Default()
	Logger *slog.Logger

	// Registry enables HTTP metrics and GET /metrics when set. Pass the
	// same registry to resolve.NewMetrics to export resolver metrics.
	Registry *prometheus.Registry

	// MaxBodyBytes limits the request body of POST /resolve.
	MaxBodyBytes int64

	// ReadHeaderTimeout is the maximum duration for reading request headers.
	ReadHeaderTimeout time.Duration

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum time to wait for the next request.
	IdleTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible timeouts. Resolver and
// Snippets must still be set.
func DefaultConfig() Config {
	return Config{
		Address:           "localhost:8080",
		MaxBodyBytes:      DefaultMaxBodyBytes,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   15 * time.Second,
	}
}
