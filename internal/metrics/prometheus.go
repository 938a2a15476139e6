package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using the Prometheus client library.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	matchesTotal    *prometheus.CounterVec
	rechecksTotal   prometheus.Counter
	recheckDuration prometheus.Histogram
	recheckMatches  prometheus.Histogram
	importRowsTotal *prometheus.CounterVec
}

// NewPrometheusSink creates a new Prometheus metrics sink.
// Metrics that fail to register keep working locally; they just stop
// being exported.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		matchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worklog_matches_total",
			Help: "Total number of to-do/job matches found.",
		}, []string{"direction"}),
		rechecksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worklog_rechecks_total",
			Help: "Total number of full reconciliation passes.",
		}),
		recheckDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worklog_recheck_duration_seconds",
			Help:    "Duration of each full reconciliation pass in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}),
		recheckMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worklog_recheck_new_matches",
			Help:    "New matches produced by each full reconciliation pass.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		importRowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worklog_import_rows_total",
			Help: "Imported to-do rows by outcome.",
		}, []string{"outcome"}),
	}

	s.register(reg, s.matchesTotal, "worklog_matches_total")
	s.register(reg, s.rechecksTotal, "worklog_rechecks_total")
	s.register(reg, s.recheckDuration, "worklog_recheck_duration_seconds")
	s.register(reg, s.recheckMatches, "worklog_recheck_new_matches")
	s.register(reg, s.importRowsTotal, "worklog_import_rows_total")

	return s
}

func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		log.Printf("metrics: failed to register %s: %v", name, err)
	}
}

func (s *PrometheusSink) MatchFound(direction string) {
	s.matchesTotal.WithLabelValues(direction).Inc()
}

func (s *PrometheusSink) RecheckCompleted(duration time.Duration, newMatches int) {
	s.rechecksTotal.Inc()
	s.recheckDuration.Observe(duration.Seconds())
	s.recheckMatches.Observe(float64(newMatches))
}

func (s *PrometheusSink) ImportRow(outcome string) {
	s.importRowsTotal.WithLabelValues(outcome).Inc()
}
