package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "authline"

// Auth outcomes recorded by AuthResult.
const (
	AuthSuccess = "success"
	AuthFailure = "failure"
	AuthError   = "error"
)

// Registry holds all application metrics.
//
// All recording methods are safe on a nil *Registry, so components can
// run without metrics wired.
type Registry struct {
	registry *prometheus.Registry

	ConnectionsAccepted prometheus.Counter
	ConnectionsClosed   *prometheus.CounterVec
	AcceptErrors        prometheus.Counter

	AuthAttempts *prometheus.CounterVec

	CommandsTotal *prometheus.CounterVec
	PingLatency   prometheus.Histogram

	ReadErrors  prometheus.Counter
	WriteErrors prometheus.Counter
}

// NewRegistry creates a registry with the Go runtime and process
// collectors plus the authline protocol metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted TCP connections.",
		}),
		ConnectionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_closed_total",
			Help:      "Total number of closed connections by reason.",
		}, []string{"reason"}),
		AcceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accept_errors_total",
			Help:      "Total number of failed accept calls.",
		}),
		AuthAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Total number of authentication attempts by result.",
		}, []string{"result"}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of dispatched commands.",
		}, []string{"command"}),
		PingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ping_processing_seconds",
			Help:      "Server-side processing time reported in pong replies.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Total number of connection read errors.",
		}),
		WriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_errors_total",
			Help:      "Total number of connection write errors.",
		}),
	}

	reg.MustRegister(
		r.ConnectionsAccepted,
		r.ConnectionsClosed,
		r.AcceptErrors,
		r.AuthAttempts,
		r.CommandsTotal,
		r.PingLatency,
		r.ReadErrors,
		r.WriteErrors,
	)

	return r
}

// MustRegister registers additional collectors, such as a Collector
// bound to a running server.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ConnAccepted records an accepted connection.
func (r *Registry) ConnAccepted() {
	if r == nil {
		return
	}
	r.ConnectionsAccepted.Inc()
}

// ConnClosed records a finished connection with the reason it ended.
func (r *Registry) ConnClosed(reason string) {
	if r == nil {
		return
	}
	r.ConnectionsClosed.WithLabelValues(reason).Inc()
}

// AcceptFailed records a failed accept call.
func (r *Registry) AcceptFailed() {
	if r == nil {
		return
	}
	r.AcceptErrors.Inc()
}

// AuthResult records an authentication attempt outcome.
func (r *Registry) AuthResult(result string) {
	if r == nil {
		return
	}
	r.AuthAttempts.WithLabelValues(result).Inc()
}

// Command records a dispatched command.
func (r *Registry) Command(name string) {
	if r == nil {
		return
	}
	r.CommandsTotal.WithLabelValues(name).Inc()
}

// ObservePing records the processing time reported to the client.
func (r *Registry) ObservePing(seconds float64) {
	if r == nil {
		return
	}
	r.PingLatency.Observe(seconds)
}

// ReadFailed records a read error.
func (r *Registry) ReadFailed() {
	if r == nil {
		return
	}
	r.ReadErrors.Inc()
}

// WriteFailed records a write error.
func (r *Registry) WriteFailed() {
	if r == nil {
		return
	}
	r.WriteErrors.Inc()
}
