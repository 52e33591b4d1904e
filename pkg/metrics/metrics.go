// Package metrics provides Prometheus metrics for the snapshot pipeline.
//
// goldwatch is a batch job, so metrics are delivered by pushing the run's
// registry to a Pushgateway rather than by exposing a scrape endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// SourceFetchesTotal is a counter of fetch attempts per source.
	SourceFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetches_total",
			Help: "Total number of fetch attempts against upstream sources",
		},
		[]string{"source", "role", "status"},
	)

	// SourceFetchDuration is a histogram of per-source fetch latency.
	SourceFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Duration of upstream fetch-and-parse operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// OutlierRejectionsTotal is a counter of rejected outlier readings.
	OutlierRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outlier_rejections_total",
			Help: "Total number of readings rejected as outliers during reconciliation",
		},
		[]string{"role", "source"},
	)

	// ReconciledSourceCount is a gauge of accepted sources per role.
	ReconciledSourceCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reconciled_source_count",
			Help: "Number of sources accepted into the reconciled aggregate",
		},
		[]string{"role"},
	)

	// SnapshotSuccess is a gauge of the critical gate outcome (1=pass).
	SnapshotSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_success",
			Help: "Whether the run produced a snapshot with all critical data (1=yes)",
		},
	)

	// SnapshotTimestamp is a gauge of the last completed run.
	SnapshotTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_timestamp_seconds",
			Help: "Unix timestamp of the last completed snapshot run",
		},
	)
)

// Init initializes the Prometheus metrics registry.
func Init() {
	prometheus.MustRegister(
		SourceFetchesTotal,
		SourceFetchDuration,
		OutlierRejectionsTotal,
		ReconciledSourceCount,
		SnapshotSuccess,
		SnapshotTimestamp,
	)
}

// Push delivers the run's metrics to a Pushgateway.
func Push(gateway, job string) error {
	return push.New(gateway, job).
		Gatherer(prometheus.DefaultGatherer).
		Push()
}

// RecordFetch records one fetch attempt against an upstream source.
func RecordFetch(source, role string, ok bool, duration time.Duration) {
	status := "success"
	if !ok {
		status = "failure"
	}
	SourceFetchesTotal.WithLabelValues(source, role, status).Inc()
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordOutlierRejection records an outlier rejection.
func RecordOutlierRejection(role, source string) {
	OutlierRejectionsTotal.WithLabelValues(role, source).Inc()
}

// RecordReconciled records the accepted source count for a role.
func RecordReconciled(role string, count int) {
	ReconciledSourceCount.WithLabelValues(role).Set(float64(count))
}

// RecordRun records the run outcome and completion time.
func RecordRun(success bool) {
	val := 0.0
	if success {
		val = 1.0
	}
	SnapshotSuccess.Set(val)
	SnapshotTimestamp.SetToCurrentTime()
}
