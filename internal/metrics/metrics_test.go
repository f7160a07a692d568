package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.LoginAttempt("success")
	m.LoginAttempt("success")
	m.LoginAttempt("bad_password")
	m.TokenRejected("session", "TOKEN_EXPIRED")
	m.ResetEmail("failed")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.loginAttempts.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.loginAttempts.WithLabelValues("bad_password")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.tokenRejections.WithLabelValues("session", "TOKEN_EXPIRED")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.resetEmails.WithLabelValues("sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.resetEmails.WithLabelValues("failed")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LoginAttempt("success")
		m.TokenRejected("reset", "TOKEN_EMPTY")
		m.ResetEmail("sent")
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg).TokenRejected("reset", "TOKEN_EMAIL_MISMATCH")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `quizhub_token_rejections_total{purpose="reset",reason="TOKEN_EMAIL_MISMATCH"} 1`)
}
