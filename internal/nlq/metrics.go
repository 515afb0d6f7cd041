package nlq

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georisk",
			Subsystem: "nlq",
			Name:      "queries_total",
			Help:      "Natural-language queries by outcome (success, translation_failed, execution_failed).",
		},
		[]string{"outcome"},
	)

	executionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "georisk",
			Subsystem: "nlq",
			Name:      "execution_duration_seconds",
			Help:      "Time spent executing query plans.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"entity", "status"},
	)

	resultRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "georisk",
			Subsystem: "nlq",
			Name:      "result_rows",
			Help:      "Total matching rows per executed plan.",
			Buckets:   []float64{0, 1, 5, 10, 50, 200, 1000, 10000},
		},
		[]string{"entity"},
	)

	// reason is a dropReason or spatial_unsupported.
	droppedFilters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georisk",
			Subsystem: "nlq",
			Name:      "dropped_filters_total",
			Help:      "Plan filters ignored by the executor.",
		},
		[]string{"entity", "reason"},
	)
)

func observeExecution(entity TargetEntity, d time.Duration, res *QueryResult, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	executionDuration.WithLabelValues(string(entity), status).Observe(d.Seconds())
	if err == nil && res != nil {
		resultRows.WithLabelValues(string(entity)).Observe(float64(res.TotalCount))
	}
}
