// Package metrics exposes Prometheus counters for recommendation traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sommelier"

// Outcome labels for requests_total.
const (
	OutcomeSuccess  = "success"
	OutcomeUpstream = "upstream_error"
	OutcomeInternal = "internal_error"
)

// Collector owns a private Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	tokensTotal      *prometheus.CounterVec
}

// NewCollector creates and registers all recommendation metrics.
// A nil registry gets a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of recommendation requests by outcome",
			},
			[]string{"lang", "outcome", "status"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_duration_seconds",
				Help:      "Duration of upstream chat completion calls in seconds",
				// LLM latencies sit between 100ms and 30s
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"model"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Total tokens consumed by type",
			},
			[]string{"lang", "type"},
		),
	}

	registry.MustRegister(c.requestsTotal, c.upstreamDuration, c.tokensTotal)
	return c
}

// RecordRequest counts one finished request. status is the HTTP status the
// caller received.
func (c *Collector) RecordRequest(lang, outcome string, status int) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(lang, outcome, strconv.Itoa(status)).Inc()
}

// RecordUpstream observes the latency of one upstream call.
func (c *Collector) RecordUpstream(model string, d time.Duration) {
	if c == nil {
		return
	}
	c.upstreamDuration.WithLabelValues(model).Observe(d.Seconds())
}

// RecordTokens adds prompt and completion token counts.
func (c *Collector) RecordTokens(lang string, prompt, completion int) {
	if c == nil {
		return
	}
	if prompt > 0 {
		c.tokensTotal.WithLabelValues(lang, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		c.tokensTotal.WithLabelValues(lang, "completion").Add(float64(completion))
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
