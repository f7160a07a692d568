package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application counters.
type Metrics struct {
	loginAttempts   *prometheus.CounterVec
	tokenRejections *prometheus.CounterVec
	resetEmails     *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
// Panics if registration fails (following prometheus convention).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		loginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizhub_login_attempts_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		tokenRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizhub_token_rejections_total",
				Help: "Total number of rejected tokens by purpose and reason",
			},
			[]string{"purpose", "reason"},
		),
		resetEmails: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizhub_reset_emails_total",
				Help: "Total number of password reset emails by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// LoginAttempt counts a login by outcome. Outcomes are defined by the auth service.
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// TokenRejected counts a rejected token.
func (m *Metrics) TokenRejected(purpose, reason string) {
	if m == nil {
		return
	}
	m.tokenRejections.WithLabelValues(purpose, reason).Inc()
}

// ResetEmail counts a reset email by outcome, see notify.ResetSent and notify.ResetFailed.
func (m *Metrics) ResetEmail(outcome string) {
	if m == nil {
		return
	}
	m.resetEmails.WithLabelValues(outcome).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
