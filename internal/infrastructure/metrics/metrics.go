// Package metrics exposes Prometheus collectors for HTTP traffic and the
// auth and attendance flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "davomat"

type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	loginTotal        *prometheus.CounterVec
	refreshTotal      *prometheus.CounterVec
	reuseDetected     prometheus.Counter
	sessionsRevoked   prometheus.Counter
	autoLocked        prometheus.Counter
	attendanceWritten *prometheus.CounterVec
}

// New registers every collector on a fresh registry together with the Go
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_login_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_refresh_total",
			Help:      "Refresh token rotations by result.",
		}, []string{"result"}),
		reuseDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_refresh_reuse_detected_total",
			Help:      "Refresh tokens presented after revocation.",
		}),
		sessionsRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_sessions_revoked_total",
			Help:      "Refresh tokens revoked by logout-all, password change or reuse detection.",
		}),
		autoLocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_sessions_auto_locked_total",
			Help:      "Attendance sessions locked after their close time.",
		}),
		attendanceWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_marks_written_total",
			Help:      "Attendance rows written by source.",
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.loginTotal,
		m.refreshTotal,
		m.reuseDetected,
		m.sessionsRevoked,
		m.autoLocked,
		m.attendanceWritten,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestStarted increments the in-flight gauge and returns the function
// that records the finished request.
func (m *Metrics) RequestStarted() func(method, route string, status int) {
	m.httpInFlight.Inc()
	start := time.Now()
	return func(method, route string, status int) {
		code := strconv.Itoa(status)
		m.httpRequestDuration.WithLabelValues(method, route, code).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(method, route, code).Inc()
		m.httpInFlight.Dec()
	}
}

func (m *Metrics) LoginAttempt(result string) {
	m.loginTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RefreshAttempt(result string) {
	m.refreshTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RefreshReuseDetected() {
	m.reuseDetected.Inc()
}

func (m *Metrics) SessionsRevoked(n int64) {
	if n > 0 {
		m.sessionsRevoked.Add(float64(n))
	}
}

func (m *Metrics) SessionsAutoLocked(n int64) {
	if n > 0 {
		m.autoLocked.Add(float64(n))
	}
}

func (m *Metrics) AttendanceWritten(source string, n int64) {
	if n > 0 {
		m.attendanceWritten.WithLabelValues(source).Add(float64(n))
	}
}
