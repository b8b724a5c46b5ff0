package collector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeNetwork  = "network_error"
	OutcomeTimeout  = "timeout"
	OutcomeStorage  = "storage_error"
	OutcomeBusy     = "busy"

	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

type Metrics struct {
	loginAttempts       *prometheus.CounterVec
	sessionChecks       *prometheus.CounterVec
	lastAttemptDuration prometheus.Gauge
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	registry = prometheus.WrapRegistererWithPrefix("achievements_login_", registry)

	m := &Metrics{
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attempts_total",
			Help: "Login submissions by outcome",
		}, []string{"outcome"}),
		sessionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_checks_total",
			Help: "Existing session probes by outcome",
		}, []string{"outcome"}),
		lastAttemptDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "last_attempt_duration_seconds",
			Help: "Returns how long the last login request took in seconds",
		}),
	}
	registry.MustRegister(m.loginAttempts, m.sessionChecks, m.lastAttemptDuration)

	return m
}

func (m *Metrics) LoginAttempt(outcome string, duration time.Duration) {
	m.loginAttempts.WithLabelValues(outcome).Inc()
	if outcome != OutcomeBusy {
		m.lastAttemptDuration.Set(duration.Seconds())
	}
}

func (m *Metrics) SessionCheck(outcome string) {
	m.sessionChecks.WithLabelValues(outcome).Inc()
}
