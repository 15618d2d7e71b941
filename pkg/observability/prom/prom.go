// Package prom implements the observability hooks with Prometheus
// collectors.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/octomap/pkg/observability"
)

// Metrics holds the collectors. It implements
// [observability.ResolveHooks], [observability.CacheHooks] and
// [observability.APIHooks].
type Metrics struct {
	Resolves      *prometheus.CounterVec
	ResolvePasses *prometheus.CounterVec
	Remaining     *prometheus.GaugeVec
	ResolveTime   *prometheus.HistogramVec
	Cache         *prometheus.CounterVec
	CacheBytes    *prometheus.CounterVec
	Requests      *prometheus.CounterVec
	RequestTime   *prometheus.HistogramVec
}

var (
	_ observability.ResolveHooks = (*Metrics)(nil)
	_ observability.CacheHooks   = (*Metrics)(nil)
	_ observability.APIHooks     = (*Metrics)(nil)
)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "octomap_resolves_total",
				Help: "Resolver runs by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		ResolvePasses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "octomap_resolve_passes_total",
				Help: "Resolver passes run",
			},
			[]string{"strategy"},
		),
		Remaining: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "octomap_remaining_conflicts",
				Help: "Conflicts left after the last resolver run",
			},
			[]string{"strategy"},
		),
		ResolveTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "octomap_resolve_duration_seconds",
				Help:    "Resolver run duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		Cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "octomap_cache_requests_total",
				Help: "Cache lookups and writes by result",
			},
			[]string{"key_type", "result"},
		),
		CacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "octomap_cache_written_bytes_total",
				Help: "Bytes written to the cache",
			},
			[]string{"key_type"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "octomap_http_requests_total",
				Help: "API requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "octomap_http_request_duration_seconds",
				Help:    "API request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(
		m.Resolves, m.ResolvePasses, m.Remaining, m.ResolveTime,
		m.Cache, m.CacheBytes, m.Requests, m.RequestTime,
	)
	return m
}

// Register installs m as the global resolve, cache and API hooks.
func (m *Metrics) Register() {
	observability.SetResolveHooks(m)
	observability.SetCacheHooks(m)
	observability.SetAPIHooks(m)
}

func (m *Metrics) OnResolveStart(context.Context, string, int) {}

func (m *Metrics) OnPass(_ context.Context, strategy string, _ int) {
	m.ResolvePasses.WithLabelValues(strategy).Inc()
}

func (m *Metrics) OnResolveComplete(_ context.Context, strategy string, _, remaining int, d time.Duration, err error) {
	outcome := "solved"
	switch {
	case err != nil:
		outcome = "error"
	case remaining > 0:
		outcome = "unsolved"
	}
	m.Resolves.WithLabelValues(strategy, outcome).Inc()
	m.Remaining.WithLabelValues(strategy).Set(float64(remaining))
	m.ResolveTime.WithLabelValues(strategy).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.Cache.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.Cache.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.Cache.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestTime.WithLabelValues(method, route).Observe(d.Seconds())
}
