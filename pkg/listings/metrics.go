package listings

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK      = "ok"
	resultInvalid = "invalid"
	resultError   = "error"
)

var (
	workflowTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_workflow_total",
			Help: "number of listings workflows by outcome",
		},
		[]string{"workflow", "result"},
	)

	workflowDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listings_workflow_duration_seconds",
			Help:    "listings workflow latency, including confirmation",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"workflow"},
	)
)

func init() {
	prometheus.MustRegister(workflowTotal, workflowDuration)
}

func observe(op string, start time.Time, err error) {
	result := resultOK
	var verr *ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		result = resultInvalid
	default:
		result = resultError
	}
	workflowTotal.WithLabelValues(op, result).Inc()
	workflowDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
