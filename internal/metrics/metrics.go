// Package metrics exposes the service's Prometheus collectors.  Every
// Metrics value owns its registry, so several servers can coexist in one
// process (tests) without duplicate-registration errors.
//
// All recording methods are no-ops on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

const namespace = "doorlog"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	accessEvents    *prometheus.CounterVec
	doorTransitions *prometheus.CounterVec
	doorUnlocked    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by method, route and status.",
		}, []string{"method", "path", "status"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		accessEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_events_total",
			Help:      "Access events by result (appended|rejected).",
		}, []string{"result"}),

		doorTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "door_transitions_total",
			Help:      "Door commands applied, by command (open|close).",
		}, []string{"command"}),

		doorUnlocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "door_unlocked",
			Help:      "1 while the door is UNLOCKED, 0 while LOCKED.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.accessEvents,
		m.doorTransitions,
		m.doorUnlocked,
	)
	return m
}

// Registry is exposed for tests that gather values directly.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) EventsAppended(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.accessEvents.WithLabelValues("appended").Add(float64(n))
}

func (m *Metrics) EventsRejected() {
	if m == nil {
		return
	}
	m.accessEvents.WithLabelValues("rejected").Inc()
}

func (m *Metrics) DoorTransition(command string, st types.DoorState) {
	if m == nil {
		return
	}
	m.doorTransitions.WithLabelValues(command).Inc()
	if st == types.DoorUnlocked {
		m.doorUnlocked.Set(1)
	} else {
		m.doorUnlocked.Set(0)
	}
}
