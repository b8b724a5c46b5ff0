package collector

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.LoginAttempt(OutcomeRejected, 2*time.Second)
	m.LoginAttempt(OutcomeSuccess, 500*time.Millisecond)
	m.LoginAttempt(OutcomeBusy, 0)
	m.SessionCheck(OutcomeInvalid)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.loginAttempts.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.loginAttempts.WithLabelValues(OutcomeBusy)))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.lastAttemptDuration))

	err := testutil.GatherAndCompare(registry, strings.NewReader(`
# HELP achievements_login_session_checks_total Existing session probes by outcome
# TYPE achievements_login_session_checks_total counter
achievements_login_session_checks_total{outcome="invalid"} 1
`), "achievements_login_session_checks_total")
	require.NoError(t, err)
}
