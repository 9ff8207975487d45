package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsDisabled(t *testing.T) {
	m := New(false, prometheus.NewRegistry())

	// no-ops, must not panic
	m.RecordLogin("success")
	m.RecordAuthentication("anonymous")
	m.RecordDenial(403)
	m.RecordRequest("GET", "/", 200, 0.01)
	m.RecordOrder("fulfilled")

	var nilMetrics *Metrics
	nilMetrics.RecordLogin("success")
}

func TestMetricsCounters(t *testing.T) {
	m := New(true, prometheus.NewRegistry())

	m.RecordLogin("success")
	m.RecordLogin("success")
	m.RecordLogin("failure")
	m.RecordAuthentication("revoked")
	m.RecordDenial(401)
	m.RecordOrder("factory_error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authentications.WithLabelValues("revoked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.denials.WithLabelValues("401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues("factory_error")))
}

func TestMetricsIndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(true, prometheus.NewRegistry())
		New(true, prometheus.NewRegistry())
	})
}
