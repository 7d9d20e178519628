package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	IngestPathSingle = "single"
	IngestPathBulk   = "bulk"

	BulkOutcomeCommitted  = "committed"
	BulkOutcomeRejected   = "rejected"
	BulkOutcomeRolledBack = "rolled_back"
)

const (
	StoreErrorReasonDeadlineExceeded = "deadline_exceeded"
	StoreErrorReasonCanceled         = "canceled"
	StoreErrorReasonUniqueViolation  = "unique_violation"
	StoreErrorReasonForeignKey       = "foreign_key_violation"
	StoreErrorReasonUnknown          = "unknown"
)

// WaterMetrics tracks reading ingestion and consumption lookups. It is
// scraped from /metrics alongside the process collectors.
type WaterMetrics struct {
	readingsIngested    *prometheus.CounterVec
	bulkBatches         *prometheus.CounterVec
	bulkBatchSize       prometheus.Observer
	consumptionFallback prometheus.Counter
	storeErrors         *prometheus.CounterVec
}

var (
	waterMetricsOnce sync.Once
	waterMetrics     *WaterMetrics
)

// Water returns the process-wide instance registered on the default registry.
func Water() *WaterMetrics {
	return WaterWithConfig(Config{})
}

func WaterWithConfig(cfg Config) *WaterMetrics {
	waterMetricsOnce.Do(func() {
		waterMetrics = newWaterMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return waterMetrics
}

// NewWaterMetrics registers a fresh set of collectors on registerer.
func NewWaterMetrics(registerer prometheus.Registerer, cfg Config) *WaterMetrics {
	return newWaterMetrics(registerer, cfg)
}

func newWaterMetrics(registerer prometheus.Registerer, cfg Config) *WaterMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName(cfg),
		"env":     environment,
	}

	readingsIngested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "propertydesk_water_readings_ingested_total",
		Help:        "Water meter readings persisted, by ingestion path.",
		ConstLabels: constLabels,
	}, []string{"path"})
	bulkBatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "propertydesk_water_bulk_batches_total",
		Help:        "Bulk reading batches by outcome.",
		ConstLabels: constLabels,
	}, []string{"outcome"})
	bulkBatchSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "propertydesk_water_bulk_batch_size",
		Help:        "Number of readings per committed bulk batch.",
		Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})
	consumptionFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "propertydesk_water_consumption_fallback_total",
		Help:        "Consumption lookups that reported the previous month because the current month summed to zero.",
		ConstLabels: constLabels,
	})
	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "propertydesk_water_store_errors_total",
		Help:        "Store failures on water writes by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"operation", "reason"})

	registerer.MustRegister(
		readingsIngested,
		bulkBatches,
		bulkBatchSize,
		consumptionFallback,
		storeErrors,
	)

	return &WaterMetrics{
		readingsIngested:    readingsIngested,
		bulkBatches:         bulkBatches,
		bulkBatchSize:       bulkBatchSize,
		consumptionFallback: consumptionFallback,
		storeErrors:         storeErrors,
	}
}

func (m *WaterMetrics) AddReadingsIngested(path string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.readingsIngested.WithLabelValues(path).Add(float64(count))
}

func (m *WaterMetrics) IncBulkBatch(outcome string, size int) {
	if m == nil {
		return
	}
	m.bulkBatches.WithLabelValues(outcome).Inc()
	if outcome == BulkOutcomeCommitted {
		m.bulkBatchSize.Observe(float64(size))
	}
}

func (m *WaterMetrics) IncConsumptionFallback() {
	if m == nil {
		return
	}
	m.consumptionFallback.Inc()
}

func (m *WaterMetrics) IncStoreError(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	m.storeErrors.WithLabelValues(operation, ClassifyStoreErrorReason(err)).Inc()
}

// ClassifyStoreErrorReason maps a store error onto a bounded label set.
func ClassifyStoreErrorReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return StoreErrorReasonDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return StoreErrorReasonCanceled
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return StoreErrorReasonUniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return StoreErrorReasonForeignKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return StoreErrorReasonUniqueViolation
		case "23503":
			return StoreErrorReasonForeignKey
		}
	}
	return StoreErrorReasonUnknown
}
