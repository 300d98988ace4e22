// Package metrics exposes Prometheus collectors for authorization decisions,
// logins, event publishing and HTTP traffic.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/core/ports"
	"github.com/startailored/records-service/internal/core/services"
)

const namespace = "records"

type Metrics struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
	logins    *prometheus.CounterVec
	events    *prometheus.CounterVec
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

var (
	_ policy.DecisionRecorder = (*Metrics)(nil)
	_ services.LoginRecorder  = (*Metrics)(nil)
)

// New registers every collector on a fresh registry, plus the Go and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_decisions_total",
			Help:      "Access policy decisions by entity, operation and outcome.",
		}, []string{"entity", "operation", "outcome"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by principal kind and outcome.",
		}, []string{"kind", "outcome"}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the broker by type and outcome.",
		}, []string{"type", "outcome"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func (m *Metrics) RecordDecision(entity domain.EntityKind, op policy.Operation, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.decisions.WithLabelValues(string(entity), string(op), result).Inc()
}

func (m *Metrics) RecordLogin(kind domain.PrincipalKind, ok bool) {
	m.logins.WithLabelValues(string(kind), outcome(ok)).Inc()
}

// ObserveRequest records one served request. route is the matched pattern,
// never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// InstrumentPublisher counts every publish attempt made through next.
func (m *Metrics) InstrumentPublisher(next ports.EventPublisher) ports.EventPublisher {
	return &instrumentedPublisher{next: next, events: m.events}
}

type instrumentedPublisher struct {
	next   ports.EventPublisher
	events *prometheus.CounterVec
}

func (p *instrumentedPublisher) Publish(ctx context.Context, evt domain.Event) error {
	err := p.next.Publish(ctx, evt)
	p.events.WithLabelValues(evt.Type, outcome(err == nil)).Inc()
	return err
}
