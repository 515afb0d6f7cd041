package llm

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "georisk",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of model calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "status"},
	)

	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georisk",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of model calls.",
		},
		[]string{"provider", "status"},
	)

	// error_type is one of timeout, auth, rate_limit, server, empty_response, unknown.
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georisk",
			Subsystem: "llm",
			Name:      "errors_total",
			Help:      "Total model call errors by type.",
		},
		[]string{"provider", "error_type"},
	)
)

// StatusError is returned by backends when the endpoint answers with a
// non-2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return e.Provider + " returned " + strconv.Itoa(e.StatusCode)
	}
	return e.Provider + " returned " + strconv.Itoa(e.StatusCode) + ": " + e.Message
}

// classifyError maps an error to a label-safe error type.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyResponse) {
		return "empty_response"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "timeout"
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == 401 || se.StatusCode == 403:
			return "auth"
		case se.StatusCode == 429:
			return "rate_limit"
		case se.StatusCode >= 500:
			return "server"
		}
		return "unknown"
	}

	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return "timeout"
	}
	return "unknown"
}

// RecordCall records metrics for one finished model call.
func RecordCall(provider string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		errorsTotal.WithLabelValues(provider, classifyError(err)).Inc()
	}
	callDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
	callsTotal.WithLabelValues(provider, status).Inc()
}
