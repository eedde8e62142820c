package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the metrics collector.
type Config struct {
	// Enabled enables metric recording. When false every record call is a
	// no-op.
	Enabled bool

	// Namespace is the Prometheus metric namespace. Default: "stockade".
	Namespace string

	// Subsystem is the Prometheus metric subsystem. Default: "block".
	Subsystem string

	// CheckDurationBuckets are histogram buckets for evaluator check
	// latency in seconds. Defaults are tuned for an in-memory hot path
	// (1µs - 5ms).
	CheckDurationBuckets []float64
}

// Collector records Prometheus metrics for the block runtime.
//
// All methods are safe for concurrent use and safe on a nil receiver, so
// components can treat metrics as strictly optional.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	checksTotal    *prometheus.CounterVec
	mutationsTotal *prometheus.CounterVec
	wipeResets     prometheus.Counter
	activeRules    prometheus.Gauge
	checkDuration  prometheus.Histogram
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is used.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "stockade"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "block"
	}
	if len(cfg.CheckDurationBuckets) == 0 {
		cfg.CheckDurationBuckets = []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "checks_total",
			Help:      "Block checks performed, by gameplay action and outcome.",
		}, []string{"action", "outcome"}),
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "mutations_total",
			Help:      "Rule mutations applied, by operation and scope.",
		}, []string{"op", "scope"}),
		wipeResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "wipe_resets_total",
			Help:      "Session reset signals handled.",
		}),
		activeRules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "active_rules",
			Help:      "Rules currently held in the store.",
		}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "check_duration_seconds",
			Help:      "Evaluator check latency.",
			Buckets:   cfg.CheckDurationBuckets,
		}),
	}

	registry.MustRegister(
		c.checksTotal,
		c.mutationsTotal,
		c.wipeResets,
		c.activeRules,
		c.checkDuration,
	)

	return c
}

// RecordCheck records one evaluator check.
//
// Parameters:
//   - action: gameplay action that triggered the check ("equip", "wear",
//     "reload")
//   - blocked: whether the check denied the action
//   - duration: evaluator latency
func (c *Collector) RecordCheck(action string, blocked bool, duration time.Duration) {
	if c == nil || !c.config.Enabled {
		return
	}

	outcome := "allowed"
	if blocked {
		outcome = "blocked"
	}
	c.checksTotal.WithLabelValues(action, outcome).Inc()
	c.checkDuration.Observe(duration.Seconds())
}

// RecordMutation records one applied rule mutation.
//
// Parameters:
//   - op: "block" or "clear"
//   - scope: "global", "participant", or "wipe"
func (c *Collector) RecordMutation(op, scope string) {
	if c == nil || !c.config.Enabled {
		return
	}

	c.mutationsTotal.WithLabelValues(op, scope).Inc()
}

// RecordWipeReset records one handled session reset signal.
func (c *Collector) RecordWipeReset() {
	if c == nil || !c.config.Enabled {
		return
	}

	c.wipeResets.Inc()
}

// SetActiveRules updates the active rule gauge.
func (c *Collector) SetActiveRules(n int) {
	if c == nil || !c.config.Enabled {
		return
	}

	c.activeRules.Set(float64(n))
}
