package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Report computation metrics
	ReportQueries        *prometheus.CounterVec
	ReportQueryLatency   *prometheus.HistogramVec
	ReportCacheHits      prometheus.Counter
	ReportCacheMisses    prometheus.Counter
	SnapshotRecords      *prometheus.GaugeVec
	DataQualityExcluded  *prometheus.CounterVec

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec

	// Worker metrics
	DailyReportsSent   prometheus.Counter
	DailyReportsFailed prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		ReportQueries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "report_queries_total",
			Help:      "Total number of report queries served, by kind",
		}, []string{"kind"}),
		ReportQueryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "report_query_duration_seconds",
			Help:      "Time spent filtering and aggregating a cohort",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"kind"}),
		ReportCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "report_cache_hits_total",
			Help:      "Memoized report results served without recomputation",
		}),
		ReportCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "report_cache_misses_total",
			Help:      "Report queries that required recomputation",
		}),
		SnapshotRecords: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "snapshot_records",
			Help:      "Record count in the most recent snapshot read, by unit",
		}, []string{"unit"}),
		DataQualityExcluded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "data_quality_excluded_total",
			Help:      "Records excluded from aggregation for missing required fields",
		}, []string{"reason"}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operation_duration_seconds",
			Help:      "Database operation latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DailyReportsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "daily_reports_sent_total",
			Help:      "Daily summary emails delivered",
		}),
		DailyReportsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "daily_reports_failed_total",
			Help:      "Daily summary emails that failed to send",
		}),
	}
}
