// Package server exposes snippet resolution over HTTP.
//
// Routes:
//
//	POST /resolve    resolve a tree document (?format=yaml|outline)
//	GET  /snippets   list resolvable snippet names as JSON
//	GET  /healthz    liveness check
//	GET  /metrics    Prometheus exposition, when a registry is configured
//
// Request bodies and YAML responses use the notation of package treeyaml.
// Failures are written as JSON objects carrying an error code, see
// internal/errors.
//
// Basic usage:
//
//	srv := server.New(server.Config{
//	    Address:  "localhost:8080",
//	    Resolver: resolve.New(set.Registry(), treeyaml.Parse),
//	    Snippets: set,
//	})
//	err := srv.Run(ctx)
package server
