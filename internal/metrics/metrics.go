// Package metrics exposes Prometheus collectors for the HTTP surface and the
// ledger.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripledger/internal/notify"
)

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	mutations       *prometheus.CounterVec
	streams         prometheus.Gauge
}

// New creates a registry with process, Go runtime and ledger collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripledger",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tripledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripledger",
			Name:      "ledger_mutations_total",
			Help:      "Committed ledger mutations by table and action.",
		}, []string{"table", "action"}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tripledger",
			Name:      "change_streams_open",
			Help:      "Open change notification streams.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		m.requests,
		m.requestDuration,
		m.mutations,
		m.streams,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency. The route label is the
// matched gin pattern so path ids do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// CountMutations subscribes to every trip's changes on bus.
func (m *Metrics) CountMutations(bus *notify.Bus) func() {
	return bus.Subscribe(notify.AllTrips, "", func(_ context.Context, change notify.Change) error {
		m.mutations.WithLabelValues(change.Table, change.Action).Inc()
		return nil
	})
}

// StreamOpened tracks an open change stream until the returned func runs.
func (m *Metrics) StreamOpened() func() {
	m.streams.Inc()
	return m.streams.Dec
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
