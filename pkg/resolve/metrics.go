package resolve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/abbrev/pkg/snippet"
)

// MetricsConfig configures the resolver's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "abbrev").
	Namespace string

	// Subsystem is the metrics subsystem (default: "resolve").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolve duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the resolver's Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "abbrev",
		Subsystem: "resolve",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the resolver's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	expansions *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   prometheus.Histogram
	depth      prometheus.Histogram
}

// NewMetrics creates and registers the resolver metrics:
//
//   - abbrev_resolve_expansions_total: snippets expanded, by kind
//   - abbrev_resolve_skipped_total: names left as-is, by reason (missing, cycle)
//   - abbrev_resolve_errors_total: failed resolutions, by type
//   - abbrev_resolve_duration_seconds: top-level Resolve duration
//   - abbrev_resolve_expansion_depth: nesting depth of each expansion
//
// It panics if the collectors are already registered with the registry,
// like promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		expansions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "expansions_total",
			Help:        "Total number of snippets expanded",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "skipped_total",
			Help:        "Total number of nodes left unexpanded",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of failed resolutions",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "duration_seconds",
			Help:        "Duration of top-level tree resolution in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		depth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "expansion_depth",
			Help:        "Number of snippets active when an expansion starts",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16},
		}),
	}
}

func (m *Metrics) expanded(kind snippet.Kind, depth int) {
	if m == nil {
		return
	}
	m.expansions.WithLabelValues(kind.String()).Inc()
	m.depth.Observe(float64(depth))
}

func (m *Metrics) skip(reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) failed(errType string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(errType).Inc()
}

func (m *Metrics) observe(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}
