// Package metrics exposes Prometheus counters for gym operations.
//
// A nil *Metrics is valid and records nothing, so handlers and services can
// be built in tests without a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OK   = "ok"
	Fail = "error"
)

type Metrics struct {
	reg           *prometheus.Registry
	mutations     *prometheus.CounterVec
	auditFailures prometheus.Counter
	identityCalls *prometheus.CounterVec
	requests      *prometheus.HistogramVec
}

// New builds a private registry with the process and Go collectors plus the
// application series.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitzone",
			Name:      "mutations_total",
			Help:      "Mutating actions by audit action name and outcome.",
		}, []string{"action", "outcome"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fitzone",
			Name:      "audit_write_failures_total",
			Help:      "Audit entries that could not be stored.",
		}),
		identityCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitzone",
			Name:      "identity_calls_total",
			Help:      "Identity provider calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fitzone",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.mutations, m.auditFailures, m.identityCalls, m.requests,
	)
	return m
}

func outcome(err error) string {
	if err != nil {
		return Fail
	}
	return OK
}

// Mutation counts one mutating action.
func (m *Metrics) Mutation(action string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(action, outcome(err)).Inc()
}

// AuditFailure counts one audit entry that was dropped.
func (m *Metrics) AuditFailure() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

// IdentityCall counts one identity provider call.
func (m *Metrics) IdentityCall(op string, err error) {
	if m == nil {
		return
	}
	m.identityCalls.WithLabelValues(op, outcome(err)).Inc()
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Middleware observes request latency labelled by the matched chi route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
