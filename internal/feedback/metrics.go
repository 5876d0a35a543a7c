package feedback

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/feedbacklab/feedback-ai-bridge/internal/ai"
)

// Operation labels for the four AI generation operations.
const (
	opPredict = "predict_rating"
	opReply   = "reply"
	opSummary = "summary"
	opActions = "recommended_actions"
)

// Attempt outcomes.
const (
	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeMalformed = "malformed"
)

// Metrics counts every attempt, retry, and fallback in the AI pipeline
// so degradation is visible without log inspection.
type Metrics struct {
	attempts    *prometheus.CounterVec
	retries     *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	submissions *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_ai_attempts_total",
			Help: "Completion attempts by operation and outcome.",
		}, []string{"operation", "outcome"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_ai_retries_total",
			Help: "Retried completion attempts by operation.",
		}, []string{"operation"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_ai_fallbacks_total",
			Help: "Operations that degraded to fallback output, by reason.",
		}, []string{"operation", "reason"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Processed submissions by status.",
		}, []string{"status"}),
	}
}

func (m *Metrics) attempt(operation, outcome string) {
	m.attempts.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) retry(operation string) {
	m.retries.WithLabelValues(operation).Inc()
}

func (m *Metrics) fallback(operation, reason string) {
	m.fallbacks.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) submission(status string) {
	m.submissions.WithLabelValues(status).Inc()
}

func fallbackReason(err error) string {
	if errors.Is(err, ai.ErrNotConfigured) {
		return "not_configured"
	}
	return "exhausted"
}
