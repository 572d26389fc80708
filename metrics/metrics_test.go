package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/health", 200, time.Millisecond)
		m.Login("ok")
		m.CommissionGenerated("PARTNER", "created")
		m.EventPublished("commission.created", nil)
		m.WebsocketConnected()
	})
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CommissionGenerated("PARTNER", "created")
	m.CommissionGenerated("PARTNER", "created")
	m.CommissionGenerated("CONSULTANT", "skipped")
	m.EventPublished("referral.converted", errors.New("broker down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commissionsGenerated.WithLabelValues("PARTNER", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commissionsGenerated.WithLabelValues("CONSULTANT", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("referral.converted", "error")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRequest("GET", "/api/products", 200, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `dispensary_http_requests_total{method="GET",path="/api/products",status="200"} 1`))
}
