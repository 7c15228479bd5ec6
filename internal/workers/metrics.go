package workers

import "github.com/prometheus/client_golang/prometheus"

var (
	// GenerationTotal counts finished generation tasks, labeled by provider
	// and outcome ("success" or "error").
	GenerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmsvc",
			Subsystem: "worker",
			Name:      "generations_total",
			Help:      "Total number of generation tasks processed.",
		},
		[]string{"provider", "outcome"},
	)

	// GenerationDuration tracks wall-clock time of a generation task.
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "llmsvc",
			Subsystem: "worker",
			Name:      "generation_duration_seconds",
			Help:      "Duration of generation tasks in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"provider"},
	)

	// GenerationPrompts tracks batch sizes seen by the worker.
	GenerationPrompts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "llmsvc",
			Subsystem: "worker",
			Name:      "generation_prompts",
			Help:      "Number of prompts per generation task.",
			Buckets:   prometheus.LinearBuckets(1, 4, 8),
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(GenerationTotal, GenerationDuration, GenerationPrompts)
}
