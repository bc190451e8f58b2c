// Package observe instruments validators with Prometheus metrics and
// OpenTelemetry spans.
package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus collectors shared by instrumented
// validators.
type Metrics struct {
	validations *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered. Registering twice with the same registry panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		validations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsonvet_validations_total",
				Help: "Total number of documents validated",
			},
			[]string{"validator", "result"},
		),

		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsonvet_validation_errors_total",
				Help: "Total number of validation errors reported",
			},
			[]string{"validator", "code"},
		),

		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jsonvet_validation_duration_seconds",
				Help:    "Time spent producing validation errors",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"validator"},
		),
	}
}

// Result label values.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

func (m *Metrics) record(validator string, codes map[string]int, seconds float64) {
	if m == nil {
		return
	}
	result := ResultValid
	if len(codes) > 0 {
		result = ResultInvalid
	}
	m.validations.WithLabelValues(validator, result).Inc()
	for code, n := range codes {
		m.errors.WithLabelValues(validator, code).Add(float64(n))
	}
	m.duration.WithLabelValues(validator).Observe(seconds)
}
