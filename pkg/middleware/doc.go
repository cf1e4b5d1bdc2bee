// Package middleware provides net/http middleware for the abbrev server.
//
// Every middleware has the func(http.Handler) http.Handler shape and is
// meant to be installed with chi's Router.Use, which lets it label
// requests by route pattern instead of raw path.
//
// # OpenTelemetry
//
// OpenTelemetry opens a server span per request using the global tracer
// provider. Handlers that start spans from the request context nest
// under it.
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
// Prometheus collects:
//
//   - abbrev_http_requests_total: requests by route, method and status
//   - abbrev_http_request_duration_seconds: request duration histogram
//   - abbrev_http_requests_in_flight: requests being served
//
//	r.Use(middleware.Prometheus())
//	r.Handle("/metrics", promhttp.Handler())
//
// # Logging
//
// RequestLogger writes one slog record per request.
package middleware
