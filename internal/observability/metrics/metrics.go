package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "curtailment_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram

	eventsProcessed prometheus.Counter
	rowsDropped     *prometheus.CounterVec
	missingHours    *prometheus.CounterVec
)

// Init registers analysis metrics with the default registry.
func Init() {
	registerOnce.Do(func() {
		runsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Total analysis runs by result",
			},
			[]string{"result"},
		)
		runDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_duration_seconds",
				Help:    "Wall time of one full analysis run",
				Buckets: prometheus.DefBuckets,
			},
		)
		eventsProcessed = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "events_processed_total",
				Help: "Curtailment events that carried impact",
			},
		)
		rowsDropped = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_dropped_total",
				Help: "Input rows dropped by reason",
			},
			[]string{"reason"},
		)
		missingHours = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "missing_hours_total",
				Help: "Hour lookups without external data by series",
			},
			[]string{"series"},
		)

		prometheus.MustRegister(runsTotal, runDuration, eventsProcessed, rowsDropped, missingHours)
	})
}

// ObserveRun records the outcome and duration of one analysis run.
func ObserveRun(err error, elapsed time.Duration) {
	if runsTotal == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	runsTotal.WithLabelValues(result).Inc()
	runDuration.Observe(elapsed.Seconds())
}

// AddProcessedEvents records events that carried impact.
func AddProcessedEvents(n int) {
	if eventsProcessed == nil || n <= 0 {
		return
	}
	eventsProcessed.Add(float64(n))
}

// AddDroppedRows records dropped input rows by reason.
func AddDroppedRows(reason string, n int) {
	if rowsDropped == nil || n <= 0 {
		return
	}
	rowsDropped.WithLabelValues(reason).Add(float64(n))
}

// AddMissingHours records hour lookups that found no data.
func AddMissingHours(series string, n int) {
	if missingHours == nil || n <= 0 {
		return
	}
	missingHours.WithLabelValues(series).Add(float64(n))
}
