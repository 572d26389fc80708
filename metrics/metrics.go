// Package metrics exposes the Prometheus collectors of the backend. A nil
// *Metrics is valid and records nothing, so callers never need a guard.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dispensary"

type Metrics struct {
	httpRequests          *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
	httpInFlight          prometheus.Gauge
	logins                *prometheus.CounterVec
	commissionsGenerated  *prometheus.CounterVec
	commissionTransitions *prometheus.CounterVec
	commissionRunDuration prometheus.Histogram
	referralConversions   prometheus.Counter
	eventsPublished       *prometheus.CounterVec
	qrVerifications       *prometheus.CounterVec
	wsConnections         prometheus.Gauge
}

// New registers every collector with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "path"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"result"}),
		commissionsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commissions",
			Name:      "generated_total",
			Help:      "Commission records produced by the monthly run, by reseller type and outcome.",
		}, []string{"reseller_type", "outcome"}),
		commissionTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commissions",
			Name:      "status_transitions_total",
			Help:      "Commission status changes by target status.",
		}, []string{"status"}),
		commissionRunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "commissions",
			Name:      "run_duration_seconds",
			Help:      "Duration of monthly commission generation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		referralConversions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "referrals",
			Name:      "conversions_total",
			Help:      "Referrals marked CONVERTED.",
		}),
		eventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events handed to the broker, by type and result.",
		}, []string{"type", "result"}),
		qrVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "qr",
			Name:      "verifications_total",
			Help:      "Public QR code verifications by result.",
		}, []string{"result"}),
		wsConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connections",
			Help:      "Open notification websocket connections.",
		}),
	}
}

// Handler serves the text exposition of g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

func (m *Metrics) RequestFinished() {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

// CommissionGenerated counts one client outcome of a monthly run: created, skipped or failed
func (m *Metrics) CommissionGenerated(resellerType, outcome string) {
	if m == nil {
		return
	}
	m.commissionsGenerated.WithLabelValues(resellerType, outcome).Inc()
}

func (m *Metrics) CommissionTransition(status string) {
	if m == nil {
		return
	}
	m.commissionTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) CommissionRun(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commissionRunDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ReferralConverted() {
	if m == nil {
		return
	}
	m.referralConversions.Inc()
}

func (m *Metrics) EventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) QRVerification(result string) {
	if m == nil {
		return
	}
	m.qrVerifications.WithLabelValues(result).Inc()
}

func (m *Metrics) WebsocketConnected() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

func (m *Metrics) WebsocketDisconnected() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}
