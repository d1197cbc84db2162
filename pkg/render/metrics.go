package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/domsync/pkg/dom"
)

// MetricsConfig configures the Prometheus metrics of a Renderer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "domsync").
	Namespace string

	// Subsystem is the metrics subsystem (default: "render").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

// Metrics records render passes. A nil *Metrics records nothing.
type Metrics struct {
	passes      *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	scriptBytes prometheus.Histogram
	fastPath    prometheus.Counter
	bulkReplace prometheus.Counter
}

// NewMetrics registers the render metrics, all named
// <namespace>_<subsystem>_<name>:
//
//	passes_total           passes by mode
//	pass_failures_total    failed passes by mode
//	pass_duration_seconds  pass duration by mode
//	script_bytes           size of emitted scripts
//	fast_path_total        display changes sent as one helper call
//	bulk_replace_total     child lists sent as one markup string
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "domsync",
		Subsystem: "render",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	f := promauto.With(cfg.Registry)
	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: name, Help: help, ConstLabels: cfg.ConstLabels,
		}
	}
	histogram := func(name, help string, buckets []float64) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: name, Help: help, ConstLabels: cfg.ConstLabels,
			Buckets: buckets,
		}
	}
	byMode := []string{"mode"}

	return &Metrics{
		passes:      f.NewCounterVec(counter("passes_total", "Render passes run."), byMode),
		failures:    f.NewCounterVec(counter("pass_failures_total", "Render passes that failed."), byMode),
		duration:    f.NewHistogramVec(histogram("pass_duration_seconds", "Time spent in a render pass.", cfg.Buckets), byMode),
		scriptBytes: f.NewHistogram(histogram("script_bytes", "Bytes of script emitted per pass.", prometheus.ExponentialBuckets(64, 4, 8))),
		fastPath:    f.NewCounter(counter("fast_path_total", "Display changes emitted as a single helper call.")),
		bulkReplace: f.NewCounter(counter("bulk_replace_total", "Child lists emitted as one markup string.")),
	}
}

func (m *Metrics) observe(mode string, elapsed time.Duration, res dom.Result, stats dom.Stats, err error) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(mode).Inc()
	m.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(mode).Inc()
		return
	}
	if res.Script != "" {
		m.scriptBytes.Observe(float64(len(res.Script)))
	}
	m.fastPath.Add(float64(stats.FastPath))
	m.bulkReplace.Add(float64(stats.BulkReplace))
}
