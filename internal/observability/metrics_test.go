package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/lead", "POST", 200, 5*time.Millisecond)
	m.RecordRequest("/lead", "POST", 200, 7*time.Millisecond)
	m.RecordError("/lead", "POST", "VALIDATION_FAILED")
	m.RecordLeadCreated()
	m.RecordNotification(true)
	m.RecordNotification(false)
	m.RecordNotification(false)
	m.RecordBotUpdate("today")
	m.RecordBotFetchError()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/lead", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("POST", "/lead", "VALIDATION_FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leadsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("delivered")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.notifications.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.botUpdates.WithLabelValues("today")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.botFetchFailures))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordLeadCreated()
		m.RecordNotification(true)
		m.RecordBotUpdate("start")
		m.RecordBotFetchError()
	})
}
