package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	programValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "program",
		Subsystem: "dates",
		Name:      "validation_failures_total",
		Help:      "Total number of rejected date proposals broken down by reason.",
	}, []string{"reason"})

	programWriteConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "program",
		Subsystem: "dates",
		Name:      "write_conflicts_total",
		Help:      "Total number of assignment write conflicts broken down by kind.",
	}, []string{"kind"})
)

func recordValidationFailure(reason string) {
	if reason == "" {
		reason = "other"
	}
	programValidationFailures.WithLabelValues(reason).Inc()
}

func recordWriteConflict(kind string) {
	if kind == "" {
		kind = "other"
	}
	programWriteConflicts.WithLabelValues(kind).Inc()
}
