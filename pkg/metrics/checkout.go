package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StepEvidence = "evidence"
	StepSubmit   = "submit"
	StepRecord   = "record"
	StepNotify   = "notify"

	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// CheckoutMetrics records how order submissions move through the pipeline.
type CheckoutMetrics struct {
	outcomes *prometheus.CounterVec
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Order submissions by terminal pipeline state.",
	}, []string{"state"})
	steps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_step_total",
		Help: "Pipeline step executions by result.",
	}, []string{"step", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_step_duration_seconds",
		Help:    "Duration of pipeline steps that call remote services.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})
	reg.MustRegister(outcomes, steps, duration)
	return &CheckoutMetrics{
		outcomes: outcomes,
		steps:    steps,
		duration: duration,
	}
}

// IncOutcome counts a submission ending in state.
func (c *CheckoutMetrics) IncOutcome(state string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(state)).Inc()
}

// IncStep counts one execution of step with result.
func (c *CheckoutMetrics) IncStep(step, result string) {
	if c == nil || c.steps == nil {
		return
	}
	c.steps.WithLabelValues(normalizeLabel(step), normalizeLabel(result)).Inc()
}

// ObserveStep records how long step took.
func (c *CheckoutMetrics) ObserveStep(step string, d time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(step)).Observe(d.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
