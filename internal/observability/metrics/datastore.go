// Package metrics provides datastore metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DatastoreMetrics contains Prometheus metrics for datastore operations
type DatastoreMetrics struct {
	registry *prometheus.Registry

	dbOperationsTotal      *prometheus.CounterVec
	dbOperationDuration    *prometheus.HistogramVec
	dbOperationErrorsTotal *prometheus.CounterVec

	dbQueryResultSizeHist *prometheus.HistogramVec
	dbTableRowCountGauge  *prometheus.GaugeVec
	dbUpGauge             *prometheus.GaugeVec

	collectors []prometheus.Collector
}

// NewDatastoreMetrics creates and registers new datastore metrics
func NewDatastoreMetrics(registry *prometheus.Registry) (*DatastoreMetrics, error) {
	m := &DatastoreMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DatastoreMetrics) initMetrics() {
	m.dbOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_db_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "backend", "status"}, // status: success, error, not_found
	)

	m.dbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datastore_db_operation_duration_seconds",
			Help:    "Time taken for database operations",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount15), // 1ms to ~32s
		},
		[]string{"operation", "backend"},
	)

	m.dbOperationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_db_operation_errors_total",
			Help: "Total number of database operation errors",
		},
		[]string{"operation", "backend", "error_type"},
	)

	m.dbQueryResultSizeHist = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datastore_query_result_size",
			Help:    "Number of records returned by list queries",
			Buckets: prometheus.ExponentialBuckets(1, BucketFactor2, BucketCount12),
		},
		[]string{"operation", "backend"},
	)

	m.dbTableRowCountGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "datastore_notes_count",
			Help: "Number of notes seen by the last full listing",
		},
		[]string{"backend"},
	)

	m.dbUpGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "datastore_up",
			Help: "Whether the last store ping succeeded (1) or failed (0)",
		},
		[]string{"backend"},
	)

	m.collectors = []prometheus.Collector{
		m.dbOperationsTotal,
		m.dbOperationDuration,
		m.dbOperationErrorsTotal,
		m.dbQueryResultSizeHist,
		m.dbTableRowCountGauge,
		m.dbUpGauge,
	}
}

// Describe implements the Collector interface
func (m *DatastoreMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *DatastoreMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordDbOperation records a database operation
func (m *DatastoreMetrics) RecordDbOperation(operation, backend, status string) {
	m.dbOperationsTotal.WithLabelValues(operation, backend, status).Inc()
}

// RecordDbOperationDuration records the duration of a database operation in seconds
func (m *DatastoreMetrics) RecordDbOperationDuration(operation, backend string, duration float64) {
	m.dbOperationDuration.WithLabelValues(operation, backend).Observe(duration)
}

// RecordDbOperationError records a database operation error
func (m *DatastoreMetrics) RecordDbOperationError(operation, backend, errorType string) {
	m.dbOperationErrorsTotal.WithLabelValues(operation, backend, errorType).Inc()
}

// RecordQueryResultSize records the number of records a query returned
func (m *DatastoreMetrics) RecordQueryResultSize(operation, backend string, resultSize int) {
	m.dbQueryResultSizeHist.WithLabelValues(operation, backend).Observe(float64(resultSize))
}

// UpdateNoteCount sets the note count gauge
func (m *DatastoreMetrics) UpdateNoteCount(backend string, count int) {
	m.dbTableRowCountGauge.WithLabelValues(backend).Set(float64(count))
}

// SetUp records the outcome of a store ping
func (m *DatastoreMetrics) SetUp(backend string, up bool) {
	value := 0.0
	if up {
		value = 1
	}
	m.dbUpGauge.WithLabelValues(backend).Set(value)
}
