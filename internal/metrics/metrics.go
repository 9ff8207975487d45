// Package metrics provides Prometheus metrics for authentication,
// authorization and order placement.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's collectors.  A nil *Metrics or one built
// with enabled=false is a no-op.
type Metrics struct {
	enabled bool

	logins          *prometheus.CounterVec
	authentications *prometheus.CounterVec
	denials         *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	orders          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.  Passing a fresh
// prometheus.NewRegistry() keeps tests independent of the default registry.
func New(enabled bool, reg prometheus.Registerer) *Metrics {
	m := &Metrics{enabled: enabled}
	if !enabled {
		return m
	}
	f := promauto.With(reg)

	m.logins = f.NewCounterVec(prometheus.CounterOpts{
		Name: "pizza_logins_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	m.authentications = f.NewCounterVec(prometheus.CounterOpts{
		Name: "pizza_authentications_total",
		Help: "Per-request authentication results",
	}, []string{"result"})

	m.denials = f.NewCounterVec(prometheus.CounterOpts{
		Name: "pizza_authorization_denials_total",
		Help: "Requests rejected by the authorization guards",
	}, []string{"status"})

	m.httpRequests = f.NewCounterVec(prometheus.CounterOpts{
		Name: "pizza_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	m.httpDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pizza_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.orders = f.NewCounterVec(prometheus.CounterOpts{
		Name: "pizza_orders_total",
		Help: "Orders by factory outcome",
	}, []string{"outcome"})

	return m
}

func (m *Metrics) on() bool { return m != nil && m.enabled }

// RecordLogin counts a login attempt; outcome is success, failure or error.
func (m *Metrics) RecordLogin(outcome string) {
	if !m.on() {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// RecordAuthentication counts the result of the authentication middleware.
func (m *Metrics) RecordAuthentication(result string) {
	if !m.on() {
		return
	}
	m.authentications.WithLabelValues(result).Inc()
}

// RecordDenial counts a 401 or 403 produced by a guard.
func (m *Metrics) RecordDenial(status int) {
	if !m.on() {
		return
	}
	m.denials.WithLabelValues(strconv.Itoa(status)).Inc()
}

// RecordRequest counts a finished HTTP request.
func (m *Metrics) RecordRequest(method, route string, status int, seconds float64) {
	if !m.on() {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordOrder counts an order by factory outcome.
func (m *Metrics) RecordOrder(outcome string) {
	if !m.on() {
		return
	}
	m.orders.WithLabelValues(outcome).Inc()
}
