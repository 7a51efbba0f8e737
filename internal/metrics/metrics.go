// Package metrics exposes Prometheus metrics of parse requests and the grammar catalog.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "metagen"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Collector owns all metrics and the registry they are registered in.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	parses        *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	parseEvents   *prometheus.HistogramVec
	parseErrors   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	compilations  *prometheus.CounterVec
	reloads       prometheus.Counter
}

// New creates collector registering metrics in registry, nil means a new registry.
func New(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Number of parsed documents by grammar and result.",
		}, []string{"grammar", "result"}),
		parseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing a document.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"grammar"}),
		parseEvents: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_events",
			Help:      "Number of events produced by a successful parse.",
			Buckets:   prometheus.ExponentialBuckets(1, 8, 7),
		}, []string{"grammar"}),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Number of failed parses by error code.",
		}, []string{"code"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grammar_cache_lookups_total",
			Help:      "Grammar cache lookups by result (hit or miss).",
		}, []string{"result"}),
		compilations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grammar_compilations_total",
			Help:      "Grammar description compilations by result.",
		}, []string{"result"}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grammar_reloads_total",
			Help:      "Number of grammar files invalidated after a change on disk.",
		}),
	}

	registry.MustRegister(c.parses, c.parseDuration, c.parseEvents, c.parseErrors,
		c.cacheLookups, c.compilations, c.reloads)
	return c
}

// Registry returns the registry used by collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func result(e error) string {
	if e == nil {
		return ResultOK
	}
	return ResultError
}

func errorCode(e error) string {
	var ce interface{ ErrorCode() int }
	if errors.As(e, &ce) {
		return strconv.Itoa(ce.ErrorCode())
	}
	return "0"
}

// RecordParse records a single parse of a document with grammar.
func (c *Collector) RecordParse(grammar string, d time.Duration, events int, e error) {
	if c == nil {
		return
	}

	c.parses.WithLabelValues(grammar, result(e)).Inc()
	c.parseDuration.WithLabelValues(grammar).Observe(d.Seconds())
	if e == nil {
		c.parseEvents.WithLabelValues(grammar).Observe(float64(events))
	} else {
		c.parseErrors.WithLabelValues(errorCode(e)).Inc()
	}
}

// RecordCacheLookup records grammar cache hit or miss.
func (c *Collector) RecordCacheLookup(hit bool) {
	if c == nil {
		return
	}

	if hit {
		c.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		c.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// RecordCompile records grammar description compilation.
func (c *Collector) RecordCompile(e error) {
	if c == nil {
		return
	}

	c.compilations.WithLabelValues(result(e)).Inc()
}

// RecordReload records grammar file invalidation.
func (c *Collector) RecordReload() {
	if c == nil {
		return
	}

	c.reloads.Inc()
}

// Handler returns HTTP handler exposing registered metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
