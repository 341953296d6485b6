package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fitness_planner"

// Collectors exposes Prometheus collectors for plan generation.
type Collectors struct {
	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	modelCallDuration  *prometheus.HistogramVec
	modelCallErrors    *prometheus.CounterVec
}

// MustNewCollectors registers the collectors with reg and panics on
// registration errors. Pass a fresh registry in tests.
func MustNewCollectors(reg prometheus.Registerer) *Collectors {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collectors{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "generations_total",
				Help:      "Plan generations by goal and outcome.",
			},
			[]string{"goal", "outcome"},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "generation_duration_seconds",
				Help:      "End to end duration of plan generations.",
				Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		modelCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "model",
				Name:      "call_duration_seconds",
				Help:      "Latency of individual model calls.",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"agent"},
		),
		modelCallErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "model",
				Name:      "call_errors_total",
				Help:      "Model calls that returned an error.",
			},
			[]string{"agent"},
		),
	}
	reg.MustRegister(c.generations, c.generationDuration, c.modelCallDuration, c.modelCallErrors)
	return c
}

// ObserveGeneration records one generation outcome.
func (c *Collectors) ObserveGeneration(goal string, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.generations.WithLabelValues(goal, outcome).Inc()
	c.generationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveModelCall records the latency of a model call and counts failures.
func (c *Collectors) ObserveModelCall(agent string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.modelCallDuration.WithLabelValues(agent).Observe(elapsed.Seconds())
	if err != nil {
		c.modelCallErrors.WithLabelValues(agent).Inc()
	}
}
