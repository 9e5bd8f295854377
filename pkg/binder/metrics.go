package binder

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures binder metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "widgetkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "binder").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures binder metrics.
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

// WithBuckets sets the histogram buckets.
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
		Namespace: "widgetkit",
		Subsystem: "binder",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors a Binder records on. A nil *Metrics records
// nothing, so binders built without WithMetrics pay no cost.
//
// Collectors:
//   - widgetkit_binder_attaches_total: nodes attached
//   - widgetkit_binder_detaches_total: nodes detached
//   - widgetkit_binder_writes_total: host writes by target (attr, remove, text, widget)
//   - widgetkit_binder_widget_instances: live widget instances
//   - widgetkit_binder_widget_errors_total: widget failures by widget and operation
//   - widgetkit_binder_pass_duration_seconds: render pass duration
//   - widgetkit_binder_bindings: live bindings across every binder sharing the Metrics
type Metrics struct {
	attaches      prometheus.Counter
	detaches      prometheus.Counter
	writes        *prometheus.CounterVec
	instances     prometheus.Gauge
	widgetErrors  *prometheus.CounterVec
	passDuration  prometheus.Histogram
	bindingsGauge prometheus.Gauge
}

// NewMetrics creates and registers binder collectors. Registering twice on
// the same registry panics; share one *Metrics between binders instead.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		attaches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attaches_total",
			Help:        "Total number of nodes attached",
			ConstLabels: config.ConstLabels,
		}),

		detaches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "detaches_total",
			Help:        "Total number of nodes detached",
			ConstLabels: config.ConstLabels,
		}),

		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of property writes by target",
			ConstLabels: config.ConstLabels,
		}, []string{"target"}),

		instances: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "widget_instances",
			Help:        "Number of live widget instances",
			ConstLabels: config.ConstLabels,
		}),

		widgetErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "widget_errors_total",
			Help:        "Total widget failures by widget and operation",
			ConstLabels: config.ConstLabels,
		}, []string{"widget", "op"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Render pass apply duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		bindingsGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bindings",
			Help:        "Number of live node bindings",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) attached() {
	if m == nil {
		return
	}
	m.attaches.Inc()
	m.bindingsGauge.Inc()
}

func (m *Metrics) detached() {
	if m == nil {
		return
	}
	m.detaches.Inc()
	m.bindingsGauge.Dec()
}

func (m *Metrics) wrote(target string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(target).Inc()
}

func (m *Metrics) instanceCreated() {
	if m == nil {
		return
	}
	m.instances.Inc()
}

func (m *Metrics) instanceDisposed() {
	if m == nil {
		return
	}
	m.instances.Dec()
}

func (m *Metrics) widgetError(widget, op string) {
	if m == nil {
		return
	}
	m.widgetErrors.WithLabelValues(widget, op).Inc()
}

func (m *Metrics) pass(d time.Duration) {
	if m == nil {
		return
	}
	m.passDuration.Observe(d.Seconds())
}
