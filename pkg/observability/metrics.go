package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snipx",
		Name:      "pipeline_runs_total",
		Help:      "Processing runs by terminal status.",
	}, []string{"status"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "snipx",
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Wall time of a single processing operation.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"operation", "result"})

	subtitleFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snipx",
		Name:      "subtitle_fallbacks_total",
		Help:      "Subtitle runs that used the sample text bank instead of a transcript.",
	}, []string{"language"})
)

// ObserveRun counts a finished run.
func ObserveRun(status string) {
	pipelineRuns.WithLabelValues(status).Inc()
}

// ObserveStage records how long an operation took and whether it succeeded.
func ObserveStage(operation string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	stageDuration.WithLabelValues(operation, result).Observe(elapsed.Seconds())
}

// ObserveSubtitleFallback counts a sample-text subtitle run.
func ObserveSubtitleFallback(language string) {
	subtitleFallbacks.WithLabelValues(language).Inc()
}
