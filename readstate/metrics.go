package readstate

import "github.com/prometheus/client_golang/prometheus"

// metrics are the read-state's prometheus instrumentation: tile
// preparation and cell-copy throughput, overflow/resume frequency, and
// fragment collaborator failures.
type metrics struct {
	tilesPrepared   prometheus.Counter
	cellsCopied     prometheus.Counter
	overflowEvents  prometheus.Counter
	fragmentsFailed prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		tilesPrepared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arraydb",
			Subsystem: "readstate",
			Name:      "tiles_prepared_total",
			Help:      "Number of range tiles merged and staged for copying.",
		}),
		cellsCopied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arraydb",
			Subsystem: "readstate",
			Name:      "cells_copied_total",
			Help:      "Number of cell positions copied into caller buffers.",
		}),
		overflowEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arraydb",
			Subsystem: "readstate",
			Name:      "overflow_events_total",
			Help:      "Number of times a Read call suspended on a full output buffer.",
		}),
		fragmentsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arraydb",
			Subsystem: "readstate",
			Name:      "fragment_failures_total",
			Help:      "Number of fatal errors surfaced by a fragment collaborator call.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.tilesPrepared, m.cellsCopied, m.overflowEvents, m.fragmentsFailed)
	}
	return m
}
