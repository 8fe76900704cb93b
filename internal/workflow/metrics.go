package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snaphunt_completion_attempts_total",
		Help: "Completion attempts by evidence source and outcome.",
	}, []string{"source", "outcome"})

	locationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snaphunt_location_attachments_total",
		Help: "How completions resolved their coordinate: live fix, sandbox fallback, or none.",
	}, []string{"mode"})
)
